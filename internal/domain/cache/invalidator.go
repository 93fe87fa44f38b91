package cache

import "context"

//go:generate mockgen -source invalidator.go -destination mock_invalidator.go -package cache

// Invalidator drops every cached entry tagged with any of tags.
// Callers treat failures as best-effort.
type Invalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

type Noop struct{}

func (Noop) InvalidateTags(context.Context, ...string) error { return nil }

func UserTag(id string) string    { return "user:" + id }
func VendorTag(id string) string  { return "vendor:" + id }
func ProductTag(id string) string { return "product:" + id }
func OrderTag(id string) string   { return "order:" + id }

// Dedup returns tags without repeats, keeping first-seen order.
func Dedup(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

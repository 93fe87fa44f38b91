package redis

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/internal/domain/cache"

	"github.com/redis/go-redis/v9"
)

// TagKeyPrefix namespaces the sets that list cache keys per tag. Whatever
// writes a cached entry adds its key to TagKeyPrefix+tag.
const TagKeyPrefix = "cache:tag:"

// tagStore is the part of the redis client the invalidator needs.
type tagStore interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ cache.Invalidator = (*TagInvalidator)(nil)

type TagInvalidator struct {
	store tagStore
}

func NewTagInvalidator(client redis.UniversalClient) *TagInvalidator {
	return &TagInvalidator{store: client}
}

// NewClient parses a redis:// URL and checks connectivity.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// InvalidateTags deletes every key listed under the tags, then the tag sets.
func (i *TagInvalidator) InvalidateTags(ctx context.Context, tags ...string) error {
	tags = cache.Dedup(tags)
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		setKey := TagKeyPrefix + tag
		members, err := i.store.SMembers(ctx, setKey).Result()
		if err != nil {
			return fmt.Errorf("read tag %s: %w", tag, err)
		}
		keys = append(keys, members...)
		keys = append(keys, setKey)
	}
	keys = cache.Dedup(keys)

	deleted, err := i.store.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("delete tagged keys: %w", err)
	}

	slog.DebugContext(ctx, "Cache tags invalidated", "tags", tags, "deleted", deleted)
	return nil
}

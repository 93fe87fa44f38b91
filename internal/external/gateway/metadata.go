package gateway

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

const (
	maxMetadataKeys     = 50
	maxMetadataValueLen = 500
)

// FlattenMetadata turns nested maps into parent_child keys with string values,
// which is the only metadata shape the gateway accepts. Values longer than
// 500 characters are truncated; more than 50 keys is an error.
func FlattenMetadata(in map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(in))
	flatten("", in, out)

	if len(out) > maxMetadataKeys {
		return nil, fmt.Errorf("%w: got %d keys", ErrMetadataTooLarge, len(out))
	}
	return out, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(in)) {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}

		switch v := in[k].(type) {
		case nil:
			continue
		case map[string]any:
			flatten(key, v, out)
		case map[string]string:
			nested := make(map[string]any, len(v))
			for nk, nv := range v {
				nested[nk] = nv
			}
			flatten(key, nested, out)
		default:
			out[key] = truncate(stringify(v))
		}
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool, int, int32, int64, float32, float64, uint, uint32, uint64:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxMetadataValueLen {
		return s
	}
	return string(r[:maxMetadataValueLen])
}

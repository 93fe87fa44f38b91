package opensearch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/domain/escrow"
	"marketplace/internal/domain/order"
	"marketplace/pkg/health"

	"github.com/opensearch-project/opensearch-go"
)

const (
	defaultLimit = 10
	maxLimit     = 1000
)

var _ escrow.EventIndex = (*EscrowIndex)(nil)

// EscrowIndex mirrors escrow audit events into OpenSearch for search.
// Postgres stays the source of truth.
type EscrowIndex struct {
	client  *opensearch.Client
	index   string
	refresh string
}

func NewEscrowIndex(ctx context.Context, urls []string, index string) (*EscrowIndex, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{MaxIdleConnsPerHost: 10},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	idx := &EscrowIndex{client: client, index: index, refresh: "false"}
	if err := idx.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// WithRefresh makes writes visible to search immediately. Tests only.
func (s *EscrowIndex) WithRefresh() *EscrowIndex {
	s.refresh = "true"
	return s
}

func (s *EscrowIndex) Name() string {
	return "opensearch"
}

// Check pings the cluster. Registered as an optional dependency: escrow
// history is still listed from postgres while the index is unreachable.
func (s *EscrowIndex) Check(ctx context.Context) health.Result {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return health.Result{Status: health.StatusDown, Message: err.Error()}
	}
	defer res.Body.Close()
	if res.IsError() {
		return health.Result{Status: health.StatusDown, Message: res.Status()}
	}
	return health.Result{Status: health.StatusUp}
}

func (s *EscrowIndex) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"event_id":   map[string]any{"type": "keyword"},
				"order_id":   map[string]any{"type": "keyword"},
				"kind":       map[string]any{"type": "keyword"},
				"actor_id":   map[string]any{"type": "keyword"},
				"from":       map[string]any{"type": "keyword"},
				"to":         map[string]any{"type": "keyword"},
				"reason":     map[string]any{"type": "text"},
				"created_at": map[string]any{"type": "date"},
				"data":       map[string]any{"type": "object", "enabled": false},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, _ := json.Marshal(body)
	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() && cr.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

type eventDoc struct {
	EventID   string             `json:"event_id"`
	OrderID   string             `json:"order_id"`
	Kind      escrow.EventKind   `json:"kind"`
	ActorID   string             `json:"actor_id"`
	From      order.EscrowStatus `json:"from"`
	To        order.EscrowStatus `json:"to"`
	Reason    string             `json:"reason,omitempty"`
	Data      json.RawMessage    `json:"data,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// IndexEvent is idempotent: the document ID is the postgres event ID.
func (s *EscrowIndex) IndexEvent(ctx context.Context, ev escrow.Event) error {
	payload, err := json.Marshal(eventDoc{
		EventID:   ev.EventID,
		OrderID:   ev.OrderID,
		Kind:      ev.Kind,
		ActorID:   ev.ActorID,
		From:      ev.From,
		To:        ev.To,
		Reason:    ev.Reason,
		Data:      ev.Data,
		CreatedAt: ev.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(ev.EventID),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithRefresh(s.refresh),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

// SearchEvents pages with search_after on (created_at, event_id), the same
// ordering the postgres listing uses.
func (s *EscrowIndex) SearchEvents(ctx context.Context, q escrow.EventQuery) (escrow.EventPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	body, err := buildSearchBody(q, limit)
	if err != nil {
		return escrow.EventPage{}, err
	}
	raw, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(raw)),
	)
	if err != nil {
		return escrow.EventPage{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return escrow.EventPage{}, fmt.Errorf("search error: %s", res.String())
	}

	var sr struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return escrow.EventPage{}, fmt.Errorf("decode search: %w", err)
	}

	items := make([]escrow.Event, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		var doc eventDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return escrow.EventPage{}, fmt.Errorf("decode hit: %w", err)
		}
		if doc.EventID == "" {
			doc.EventID = h.ID
		}
		items = append(items, escrow.Event{
			EventID: doc.EventID,
			NewEvent: escrow.NewEvent{
				OrderID:   doc.OrderID,
				Kind:      doc.Kind,
				ActorID:   doc.ActorID,
				From:      doc.From,
				To:        doc.To,
				Reason:    doc.Reason,
				Data:      doc.Data,
				CreatedAt: doc.CreatedAt,
			},
		})
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	page := escrow.EventPage{Items: items, HasMore: hasMore}
	if hasMore {
		last := items[len(items)-1]
		page.NextCursor = encodeCursor(cursor{EventID: last.EventID, CreatedAt: last.CreatedAt})
	}
	return page, nil
}

func buildSearchBody(q escrow.EventQuery, limit int) (map[string]any, error) {
	filters := make([]map[string]any, 0, 4)
	if ids := nonEmpty(q.OrderIDs); len(ids) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"order_id": ids}})
	}
	if len(q.Kinds) > 0 {
		kinds := make([]string, 0, len(q.Kinds))
		for _, k := range q.Kinds {
			kinds = append(kinds, string(k))
		}
		if kinds = nonEmpty(kinds); len(kinds) > 0 {
			filters = append(filters, map[string]any{"terms": map[string]any{"kind": kinds}})
		}
	}
	if ids := nonEmpty(q.ActorIDs); len(ids) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"actor_id": ids}})
	}
	if q.TimeFrom != nil || q.TimeTo != nil {
		r := map[string]any{}
		if q.TimeFrom != nil {
			r["gte"] = q.TimeFrom.UTC().Format(time.RFC3339Nano)
		}
		if q.TimeTo != nil {
			r["lt"] = q.TimeTo.UTC().Format(time.RFC3339Nano)
		}
		filters = append(filters, map[string]any{"range": map[string]any{"created_at": r}})
	}

	direction := "desc"
	if q.SortAsc {
		direction = "asc"
	}

	body := map[string]any{
		"size": limit + 1,
		"query": map[string]any{
			"bool": map[string]any{"filter": filters},
		},
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": direction}},
			{"event_id": map[string]any{"order": direction}},
		},
	}

	if q.Cursor != "" {
		c, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, escrow.ErrInvalidCursor
		}
		body["search_after"] = []any{c.CreatedAt.UnixMilli(), c.EventID}
	}
	return body, nil
}

type cursor struct {
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

func decodeCursor(s string) (cursor, error) {
	var c cursor
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return c, err
	}
	return c, json.Unmarshal(b, &c)
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

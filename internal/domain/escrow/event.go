package escrow

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/domain/order"
)

type EventKind string

const (
	EventReleased               EventKind = "released"
	EventHoldAnnotated          EventKind = "hold_annotated"
	EventRefundRequested        EventKind = "refund_requested"
	EventRefundRequestCancelled EventKind = "refund_request_cancelled"
	EventRefundApproved         EventKind = "refund_approved"
	EventRefundRejected         EventKind = "refund_rejected"
)

type Event struct {
	EventID string `json:"event_id"`
	NewEvent
}

type NewEvent struct {
	OrderID   string             `json:"order_id"`
	Kind      EventKind          `json:"kind"`
	ActorID   string             `json:"actor_id"`
	From      order.EscrowStatus `json:"from"`
	To        order.EscrowStatus `json:"to"`
	Reason    string             `json:"reason,omitempty"`
	Data      json.RawMessage    `json:"data,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type EventPage struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type EventQuery struct {
	OrderIDs []string    `json:"order_ids" url:"order_ids" form:"order_ids,omitempty"`
	Kinds    []EventKind `json:"kinds" url:"kinds" form:"kinds,omitempty"`
	ActorIDs []string    `json:"actor_ids" url:"actor_ids" form:"actor_ids,omitempty"`

	TimeFrom *time.Time `json:"time_from,omitempty" url:"time_from,omitempty" form:"time_from,omitempty"`
	TimeTo   *time.Time `json:"time_to,omitempty" url:"time_to,omitempty" form:"time_to,omitempty"`

	Limit   int    `json:"limit" url:"limit" form:"limit"`
	Cursor  string `json:"cursor" url:"cursor" form:"cursor"`
	SortAsc bool   `json:"sort_asc" url:"sort_asc" form:"sort_asc"`
}

//go:generate mockgen -source event.go -destination mock_event.go -package escrow

// EventIndex mirrors committed escrow events into a search index.
type EventIndex interface {
	IndexEvent(ctx context.Context, event Event) error
	SearchEvents(ctx context.Context, query EventQuery) (EventPage, error)
}

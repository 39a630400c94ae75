// Package events defines lifecycle events as data. Services emit them after
// their state change commits; subscribers (audit trail, outbound
// notifications) interpret them. Events describe what happened, not how to
// react.
package events

import "time"

// Event is the base interface for all lifecycle events.
type Event interface {
	// EventType returns the routing name of the event, e.g. "order.status_changed".
	EventType() string
	// OccurredAt returns when the underlying change committed.
	OccurredAt() time.Time
}

// QuoteTransitioned records a committed quote status change.
type QuoteTransitioned struct {
	QuoteID  string    `json:"quote_id"`
	ClientID string    `json:"client_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	ActorID  string    `json:"actor_id,omitempty"`
	At       time.Time `json:"at"`
}

func (e QuoteTransitioned) EventType() string     { return "quote." + e.To }
func (e QuoteTransitioned) OccurredAt() time.Time { return e.At }

// OrderCreated records the promotion of an accepted quote.
type OrderCreated struct {
	OrderID  string    `json:"order_id"`
	QuoteID  string    `json:"quote_id"`
	ClientID string    `json:"client_id"`
	Total    int64     `json:"total"`
	At       time.Time `json:"at"`
}

func (e OrderCreated) EventType() string     { return "order.created" }
func (e OrderCreated) OccurredAt() time.Time { return e.At }

// OrderStatusChanged records a committed order status change. It is only
// emitted when the status actually differs.
type OrderStatusChanged struct {
	OrderID  string    `json:"order_id"`
	ClientID string    `json:"client_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	ActorID  string    `json:"actor_id,omitempty"`
	At       time.Time `json:"at"`
}

func (e OrderStatusChanged) EventType() string     { return "order.status_changed" }
func (e OrderStatusChanged) OccurredAt() time.Time { return e.At }

// MessageAppended records a new message on a quote or order.
type MessageAppended struct {
	MessageID string    `json:"message_id"`
	ScopeType string    `json:"scope_type"`
	ScopeID   string    `json:"scope_id"`
	SenderID  *string   `json:"sender_id"`
	At        time.Time `json:"at"`
}

func (e MessageAppended) EventType() string     { return "message.appended" }
func (e MessageAppended) OccurredAt() time.Time { return e.At }

// Envelope is the wire form of an event for outbound transports.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    Event     `json:"payload"`
}

// Wrap builds the envelope for e.
func Wrap(e Event) Envelope {
	return Envelope{Type: e.EventType(), OccurredAt: e.OccurredAt(), Payload: e}
}

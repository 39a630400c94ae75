// Package conversation merges messages attached to quotes and orders into
// threads and inbox views. Pure functions, no I/O.
package conversation

import (
	"fmt"
	"sort"
	"time"
)

// Kind names the entity type a message is attached to.
type Kind string

const (
	KindQuote Kind = "quote"
	KindOrder Kind = "order"
)

// Scope identifies the single entity a message belongs to. The zero Scope is
// invalid; build one with QuoteScope, OrderScope or ParseScope.
type Scope struct {
	kind Kind
	id   string
}

func QuoteScope(quoteID string) Scope { return Scope{kind: KindQuote, id: quoteID} }
func OrderScope(orderID string) Scope { return Scope{kind: KindOrder, id: orderID} }

// ParseScope validates a stored (kind, id) pair.
func ParseScope(kind, id string) (Scope, error) {
	if id == "" {
		return Scope{}, fmt.Errorf("message scope id is required")
	}
	switch Kind(kind) {
	case KindQuote:
		return QuoteScope(id), nil
	case KindOrder:
		return OrderScope(id), nil
	}
	return Scope{}, fmt.Errorf("unknown message scope %q", kind)
}

func (s Scope) Kind() Kind     { return s.kind }
func (s Scope) ID() string     { return s.id }
func (s Scope) IsQuote() bool  { return s.kind == KindQuote }
func (s Scope) IsOrder() bool  { return s.kind == KindOrder }
func (s Scope) IsZero() bool   { return s.kind == "" }
func (s Scope) String() string { return string(s.kind) + ":" + s.id }

// Message is the conversation view of a stored message. A nil SenderID marks
// a system message.
type Message struct {
	ID        string
	Scope     Scope
	SenderID  *string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// IsSystem reports whether m was generated by the system.
func (m Message) IsSystem() bool {
	return m.SenderID == nil
}

// IsUnreadFor reports whether m counts as unread for viewerID: not yet read,
// sent by a person, and not sent by the viewer.
func (m Message) IsUnreadFor(viewerID string) bool {
	return !m.IsRead && m.SenderID != nil && *m.SenderID != viewerID
}

// Conversation is the derived per-entity view shown in an inbox.
type Conversation struct {
	Scope         Scope
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int
	MessageCount  int
}

// MergeThread unions message lists into one thread ordered by creation time.
// Messages sharing a timestamp keep their input order.
func MergeThread(lists ...[]Message) []Message {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	merged := make([]Message, 0, n)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

// Promotions maps a quote id to the id of the order promoted from it.
type Promotions map[string]string

// Resolve returns the scope a message surfaces under: quote messages of a
// promoted quote move to the order's conversation.
func (p Promotions) Resolve(s Scope) Scope {
	if s.IsQuote() {
		if orderID, ok := p[s.id]; ok {
			return OrderScope(orderID)
		}
	}
	return s
}

// BuildInbox groups messages into conversations for viewerID. A quote's
// conversation never appears once the quote has an order; its messages are
// counted in the order's conversation instead. The result is sorted by last
// message time, newest first.
func BuildInbox(messages []Message, promoted Promotions, viewerID string) []Conversation {
	groups := make(map[Scope]*Conversation)
	var keys []Scope

	for _, m := range messages {
		key := promoted.Resolve(m.Scope)
		c, ok := groups[key]
		if !ok {
			c = &Conversation{Scope: key}
			groups[key] = c
			keys = append(keys, key)
		}
		c.MessageCount++
		if c.MessageCount == 1 || !m.CreatedAt.Before(c.LastMessageAt) {
			c.LastMessage = m.Body
			c.LastMessageAt = m.CreatedAt
		}
		if m.IsUnreadFor(viewerID) {
			c.UnreadCount++
		}
	}

	inbox := make([]Conversation, 0, len(keys))
	for _, k := range keys {
		inbox = append(inbox, *groups[k])
	}
	sort.SliceStable(inbox, func(i, j int) bool {
		return inbox[i].LastMessageAt.After(inbox[j].LastMessageAt)
	})
	return inbox
}

// ReadableBy filters ids to the messages viewerID may mark as read: those in
// msgs not sent by the viewer.
func ReadableBy(msgs []Message, viewerID string) []string {
	var ids []string
	for _, m := range msgs {
		if m.SenderID != nil && *m.SenderID == viewerID {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids
}

package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/quotedesk/internal/core/conversation"
	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// AuditTrail appends a system message to an order's thread for every
// committed order status change.
type AuditTrail struct {
	messageRepo secondary.MessageRepository
}

// NewAuditTrail creates an AuditTrail writing through messageRepo.
func NewAuditTrail(messageRepo secondary.MessageRepository) *AuditTrail {
	return &AuditTrail{messageRepo: messageRepo}
}

func (a *AuditTrail) Name() string { return "audit-trail" }

// Handle records OrderStatusChanged events and ignores the rest.
func (a *AuditTrail) Handle(ctx context.Context, evt events.Event) error {
	changed, ok := evt.(events.OrderStatusChanged)
	if !ok {
		return nil
	}

	record := &secondary.MessageRecord{
		ID:        uuid.NewString(),
		ScopeType: string(conversation.KindOrder),
		ScopeID:   changed.OrderID,
		SenderID:  nil,
		Body:      order.StatusChangeNote(order.Status(changed.From), order.Status(changed.To)),
		CreatedAt: changed.At,
	}
	if err := a.messageRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to append audit message for order %s: %w", changed.OrderID, err)
	}
	return nil
}

// Ensure AuditTrail implements the interface.
var _ secondary.EventHandler = (*AuditTrail)(nil)

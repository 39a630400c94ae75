package primary

import (
	"context"

	"github.com/example/quotedesk/internal/core/access"
)

// LedgerService defines the primary port for quote line items.
type LedgerService interface {
	// AddLineItem appends a priced line item to a submitted or reviewing quote.
	AddLineItem(ctx context.Context, p access.Principal, req AddLineItemRequest) (*LineItem, error)

	// RemoveLineItem deletes a line item from a submitted or reviewing quote.
	RemoveLineItem(ctx context.Context, p access.Principal, lineItemID string) error

	// ComputeTotal sums quantity × unit price over the quote's current items.
	ComputeTotal(ctx context.Context, p access.Principal, quoteID string) (int64, error)

	// ListLineItems returns the quote's items in display order.
	ListLineItems(ctx context.Context, p access.Principal, quoteID string) ([]*LineItem, error)
}

// AddLineItemRequest contains parameters for adding a line item.
type AddLineItemRequest struct {
	QuoteID     string
	Description string
	Quantity    int64
	UnitPrice   int64
}

// LineItem represents a quote line item at the port boundary.
type LineItem struct {
	ID          string
	QuoteID     string
	Description string
	Quantity    int64
	UnitPrice   int64
	LineTotal   int64
	SortOrder   int
}

package primary

import (
	"context"
	"time"

	"github.com/example/quotedesk/internal/core/access"
)

// OrderService defines the primary port for the order lifecycle. Orders are
// created by QuoteService.AcceptQuote only.
type OrderService interface {
	// GetOrder retrieves an order.
	GetOrder(ctx context.Context, p access.Principal, orderID string) (*Order, error)

	// GetOrderByQuote retrieves the order promoted from a quote.
	GetOrderByQuote(ctx context.Context, p access.Principal, quoteID string) (*Order, error)

	// ListOrders lists orders visible to the principal.
	ListOrders(ctx context.Context, p access.Principal, filters OrderFilters) ([]*Order, error)

	// UpdateStatus changes fabrication progress (staff).
	UpdateStatus(ctx context.Context, p access.Principal, req UpdateOrderStatusRequest) (*Order, error)

	// OrderStats counts orders per status (staff).
	OrderStats(ctx context.Context, p access.Principal) (map[string]int, error)
}

// UpdateOrderStatusRequest contains parameters for an order status update.
// Nil optional fields are left unchanged.
type UpdateOrderStatusRequest struct {
	OrderID             string
	Status              string
	Note                *string
	EstimatedCompletion *time.Time
	TrackingNumber      *string
}

// OrderFilters contains filter options for listing orders.
type OrderFilters struct {
	ClientID string
	Status   string
}

// Order represents an order at the port boundary.
type Order struct {
	ID                  string
	QuoteID             string
	ClientID            string
	Status              string
	StatusNote          string
	EstimatedCompletion *time.Time
	TrackingNumber      string
	DeliveryAddress     string
	Total               int64
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

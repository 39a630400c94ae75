// Package primary defines the driving ports of quotedesk: the service
// contracts and DTOs the CLI and other front ends call.
package primary

import (
	"context"
	"time"

	"github.com/example/quotedesk/internal/core/access"
)

// QuoteService defines the primary port for the quote lifecycle.
type QuoteService interface {
	// CreateQuote submits a new quote request for the calling client.
	CreateQuote(ctx context.Context, p access.Principal, req CreateQuoteRequest) (*CreateQuoteResponse, error)

	// GetQuote retrieves a quote, applying lazy expiry.
	GetQuote(ctx context.Context, p access.Principal, quoteID string) (*Quote, error)

	// ListQuotes lists quotes visible to the principal.
	ListQuotes(ctx context.Context, p access.Principal, filters QuoteFilters) ([]*Quote, error)

	// StartReview moves a submitted quote to reviewing (staff).
	StartReview(ctx context.Context, p access.Principal, quoteID string) (*Quote, error)

	// SendQuote snapshots the ledger total and moves the quote to quoted (staff).
	SendQuote(ctx context.Context, p access.Principal, quoteID string) (*Quote, error)

	// AcceptQuote accepts a quoted quote and creates its order (owning client).
	AcceptQuote(ctx context.Context, p access.Principal, quoteID string) (*AcceptQuoteResponse, error)

	// RejectQuote rejects a quoted quote (owning client).
	RejectQuote(ctx context.Context, p access.Principal, quoteID string) (*Quote, error)

	// ReopenQuote resubmits a rejected or expired quote (owning client).
	ReopenQuote(ctx context.Context, p access.Principal, quoteID string) (*Quote, error)

	// UpdateStaffNotes replaces the internal notes of a quote (staff).
	UpdateStaffNotes(ctx context.Context, p access.Principal, quoteID, notes string) (*Quote, error)

	// QuoteStats counts quotes per effective status (staff).
	QuoteStats(ctx context.Context, p access.Principal) (map[string]int, error)
}

// CreateQuoteRequest contains parameters for submitting a quote request.
type CreateQuoteRequest struct {
	WoodType    string
	PowerSource string
	Dimensions  string
	Quantity    int
	ClientNotes string
}

// CreateQuoteResponse contains the result of creating a quote.
type CreateQuoteResponse struct {
	QuoteID string
	Quote   *Quote
}

// AcceptQuoteResponse contains the accepted quote and the order it produced.
type AcceptQuoteResponse struct {
	Quote *Quote
	Order *Order
}

// QuoteFilters contains filter options for listing quotes.
type QuoteFilters struct {
	ClientID string
	Status   string
}

// Quote represents a quote at the port boundary. Status is the effective
// status, so a lapsed quoted quote reads as expired.
type Quote struct {
	ID          string
	ClientID    string
	Status      string
	WoodType    string
	PowerSource string
	Dimensions  string
	Quantity    int
	ClientNotes string
	StaffNotes  string
	QuotedTotal *int64
	ValidUntil  *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

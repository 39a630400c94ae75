// Package ledger contains the pure pricing rules for quote line items.
package ledger

import (
	"math"
	"strings"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
)

// SortStep is the gap left between consecutive sort orders so items can be
// inserted between existing ones later.
const SortStep = 10

// Item is the minimal line item view the ledger computes over.
type Item struct {
	Quantity  int64
	UnitPrice int64
}

// LineTotal returns quantity × unit price in minor units. Callers only pass
// items that passed ValidateNewItem, so the product fits in an int64.
func LineTotal(quantity, unitPrice int64) int64 {
	return quantity * unitPrice
}

// lineFits reports whether quantity × unit price fits in an int64 for
// non-negative operands.
func lineFits(quantity, unitPrice int64) bool {
	return quantity <= 0 || unitPrice <= math.MaxInt64/quantity
}

// Total sums the line totals of items. It fails with ErrInvalidState when a
// line total or the sum would overflow.
func Total(items []Item) (int64, error) {
	var sum int64
	for _, it := range items {
		if !lineFits(it.Quantity, it.UnitPrice) {
			return 0, apperr.InvalidState("line total of %d × %d exceeds the supported range", it.Quantity, it.UnitPrice)
		}
		line := LineTotal(it.Quantity, it.UnitPrice)
		if line > 0 && sum > math.MaxInt64-line {
			return 0, apperr.InvalidState("quote total exceeds the supported range")
		}
		sum += line
	}
	return sum, nil
}

// NextSortOrder returns the sort order for an item appended after existing.
func NextSortOrder(existing []int) int {
	max := 0
	for _, s := range existing {
		if s > max {
			max = s
		}
	}
	return max + SortStep
}

// EditContext provides context for line item mutation guards.
type EditContext struct {
	Principal   access.Principal
	QuoteID     string
	QuoteStatus string
}

// NewItemContext provides context for line item validation.
type NewItemContext struct {
	Description string
	Quantity    int64
	UnitPrice   int64
}

// EditableStatuses are the quote statuses in which line items may change.
var EditableStatuses = []string{"submitted", "reviewing"}

// IsEditableStatus reports whether line items may change in status.
func IsEditableStatus(status string) bool {
	for _, s := range EditableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanEditLineItems evaluates whether the line items of a quote may change.
// Rules:
// - Principal must be staff
// - Quote must be submitted or reviewing
func CanEditLineItems(ctx EditContext) access.GuardResult {
	if r := access.RequireRole(ctx.Principal, access.RoleStaff); !r.Allowed {
		return r
	}
	if !IsEditableStatus(ctx.QuoteStatus) {
		return access.Deny(apperr.ErrInvalidState,
			"line items of quote %s cannot change while %s", ctx.QuoteID, ctx.QuoteStatus)
	}
	return access.Allow()
}

// ValidateNewItem checks the structural constraints of a new line item.
func ValidateNewItem(ctx NewItemContext) access.GuardResult {
	if strings.TrimSpace(ctx.Description) == "" {
		return access.Deny(apperr.ErrInvalidState, "line item description is required")
	}
	if ctx.Quantity < 1 {
		return access.Deny(apperr.ErrInvalidState, "quantity must be at least 1, got %d", ctx.Quantity)
	}
	if ctx.UnitPrice < 0 {
		return access.Deny(apperr.ErrInvalidState, "unit price must not be negative, got %d", ctx.UnitPrice)
	}
	if !lineFits(ctx.Quantity, ctx.UnitPrice) {
		return access.Deny(apperr.ErrInvalidState,
			"line total of %d × %d exceeds the supported range", ctx.Quantity, ctx.UnitPrice)
	}
	return access.Allow()
}

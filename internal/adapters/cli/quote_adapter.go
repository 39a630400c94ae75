package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/ports/primary"
)

// QuoteAdapter translates quote and line item commands to service calls.
type QuoteAdapter struct {
	guard  primary.AccessGuard
	quotes primary.QuoteService
	ledger primary.LedgerService
	out    io.Writer
}

// NewQuoteAdapter creates a new QuoteAdapter.
func NewQuoteAdapter(guard primary.AccessGuard, quotes primary.QuoteService, ledger primary.LedgerService, out io.Writer) *QuoteAdapter {
	return &QuoteAdapter{guard: guard, quotes: quotes, ledger: ledger, out: out}
}

// Create submits a new quote request as the calling client.
func (a *QuoteAdapter) Create(ctx context.Context, req primary.CreateQuoteRequest) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	resp, err := a.quotes.CreateQuote(ctx, p, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Submitted quote %s (%s, qty %d)\n", resp.QuoteID, resp.Quote.WoodType, resp.Quote.Quantity)
	return nil
}

// List lists quotes visible to the caller.
func (a *QuoteAdapter) List(ctx context.Context, filters primary.QuoteFilters) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	quotes, err := a.quotes.ListQuotes(ctx, p, filters)
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}

	if len(quotes) == 0 {
		fmt.Fprintln(a.out, "No quotes found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-12s %-10s %12s %s\n", "ID", "CLIENT", "STATUS", "TOTAL", "VALID UNTIL")
	fmt.Fprintln(a.out, rule)
	for _, q := range quotes {
		total, until := "-", "-"
		if q.QuotedTotal != nil {
			total = formatMoney(*q.QuotedTotal)
		}
		if q.ValidUntil != nil {
			until = formatTime(*q.ValidUntil)
		}
		fmt.Fprintf(a.out, "%-12s %-12s %s %12s %s\n", q.ID, q.ClientID, colorStatus(q.Status), total, until)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a quote with its line items and running total.
func (a *QuoteAdapter) Show(ctx context.Context, quoteID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	q, err := a.quotes.GetQuote(ctx, p, quoteID)
	if err != nil {
		return fmt.Errorf("failed to get quote: %w", err)
	}
	items, err := a.ledger.ListLineItems(ctx, p, quoteID)
	if err != nil {
		return fmt.Errorf("failed to list line items: %w", err)
	}

	fmt.Fprintf(a.out, "\nQuote:    %s (v%d)\n", q.ID, q.Version)
	fmt.Fprintf(a.out, "Client:   %s\n", q.ClientID)
	fmt.Fprintf(a.out, "Status:   %s\n", colorStatus(q.Status))
	fmt.Fprintf(a.out, "Build:    %s / %s / %s x%d\n", q.WoodType, q.PowerSource, q.Dimensions, q.Quantity)
	if q.ClientNotes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", q.ClientNotes)
	}
	if p.IsStaff() && q.StaffNotes != "" {
		fmt.Fprintf(a.out, "Internal: %s\n", q.StaffNotes)
	}
	if q.QuotedTotal != nil && q.ValidUntil != nil {
		fmt.Fprintf(a.out, "Quoted:   %s, valid until %s\n", formatMoney(*q.QuotedTotal), formatTime(*q.ValidUntil))
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "\nNo line items")
		return nil
	}
	var running int64
	fmt.Fprintf(a.out, "\n%-10s %-30s %5s %12s %12s\n", "ID", "DESCRIPTION", "QTY", "UNIT", "LINE")
	for _, it := range items {
		running += it.LineTotal
		fmt.Fprintf(a.out, "%-10s %-30s %5d %12s %12s\n", it.ID, it.Description, it.Quantity, formatMoney(it.UnitPrice), formatMoney(it.LineTotal))
	}
	fmt.Fprintf(a.out, "%60s %12s\n", "Total", formatMoney(running))
	return nil
}

// Review moves a submitted quote into review.
func (a *QuoteAdapter) Review(ctx context.Context, quoteID string) error {
	return a.transition(ctx, quoteID, a.quotes.StartReview, "Reviewing")
}

// Send quotes the ledger total to the client.
func (a *QuoteAdapter) Send(ctx context.Context, quoteID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	q, err := a.quotes.SendQuote(ctx, p, quoteID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Sent quote %s: %s, valid until %s\n", q.ID, formatMoney(*q.QuotedTotal), formatTime(*q.ValidUntil))
	return nil
}

// Accept accepts a quote and reports the order it produced.
func (a *QuoteAdapter) Accept(ctx context.Context, quoteID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	resp, err := a.quotes.AcceptQuote(ctx, p, quoteID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Accepted quote %s\n", resp.Quote.ID)
	fmt.Fprintf(a.out, "✓ Created order %s (%s)\n", resp.Order.ID, formatMoney(resp.Order.Total))
	return nil
}

// Reject rejects a quoted quote.
func (a *QuoteAdapter) Reject(ctx context.Context, quoteID string) error {
	return a.transition(ctx, quoteID, a.quotes.RejectQuote, "Rejected")
}

// Reopen resubmits a rejected or expired quote.
func (a *QuoteAdapter) Reopen(ctx context.Context, quoteID string) error {
	return a.transition(ctx, quoteID, a.quotes.ReopenQuote, "Reopened")
}

func (a *QuoteAdapter) transition(ctx context.Context, quoteID string, fn func(context.Context, access.Principal, string) (*primary.Quote, error), verb string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	q, err := fn(ctx, p, quoteID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s quote %s (now %s)\n", verb, q.ID, q.Status)
	return nil
}

// SetNotes replaces the internal staff notes.
func (a *QuoteAdapter) SetNotes(ctx context.Context, quoteID, notes string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	if _, err := a.quotes.UpdateStaffNotes(ctx, p, quoteID, notes); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Updated notes on %s\n", quoteID)
	return nil
}

// Stats prints quote counts per status.
func (a *QuoteAdapter) Stats(ctx context.Context) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	counts, err := a.quotes.QuoteStats(ctx, p)
	if err != nil {
		return err
	}
	for _, status := range []string{"submitted", "reviewing", "quoted", "accepted", "rejected", "expired"} {
		fmt.Fprintf(a.out, "%s %d\n", colorStatus(status), counts[status])
	}
	return nil
}

// AddItem prices a new line item onto a quote.
func (a *QuoteAdapter) AddItem(ctx context.Context, req primary.AddLineItemRequest) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	item, err := a.ledger.AddLineItem(ctx, p, req)
	if err != nil {
		return err
	}
	total, err := a.ledger.ComputeTotal(ctx, p, req.QuoteID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Added %s to %s: %s (quote total %s)\n", item.ID, req.QuoteID, formatMoney(item.LineTotal), formatMoney(total))
	return nil
}

// RemoveItem deletes a line item.
func (a *QuoteAdapter) RemoveItem(ctx context.Context, lineItemID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	if err := a.ledger.RemoveLineItem(ctx, p, lineItemID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Removed line item %s\n", lineItemID)
	return nil
}

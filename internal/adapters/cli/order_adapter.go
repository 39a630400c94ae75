package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/quotedesk/internal/ports/primary"
)

// OrderAdapter translates order commands to OrderService calls.
type OrderAdapter struct {
	guard  primary.AccessGuard
	orders primary.OrderService
	out    io.Writer
}

// NewOrderAdapter creates a new OrderAdapter.
func NewOrderAdapter(guard primary.AccessGuard, orders primary.OrderService, out io.Writer) *OrderAdapter {
	return &OrderAdapter{guard: guard, orders: orders, out: out}
}

// List lists orders visible to the caller.
func (a *OrderAdapter) List(ctx context.Context, filters primary.OrderFilters) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	orders, err := a.orders.ListOrders(ctx, p, filters)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-12s %-12s %-10s %12s\n", "ID", "QUOTE", "CLIENT", "STATUS", "TOTAL")
	fmt.Fprintln(a.out, rule)
	for _, o := range orders {
		fmt.Fprintf(a.out, "%-12s %-12s %-12s %s %12s\n", o.ID, o.QuoteID, o.ClientID, colorStatus(o.Status), formatMoney(o.Total))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a single order.
func (a *OrderAdapter) Show(ctx context.Context, orderID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	o, err := a.orders.GetOrder(ctx, p, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	a.print(o)
	return nil
}

func (a *OrderAdapter) print(o *primary.Order) {
	fmt.Fprintf(a.out, "\nOrder:    %s (v%d)\n", o.ID, o.Version)
	fmt.Fprintf(a.out, "Quote:    %s\n", o.QuoteID)
	fmt.Fprintf(a.out, "Client:   %s\n", o.ClientID)
	fmt.Fprintf(a.out, "Status:   %s\n", colorStatus(o.Status))
	fmt.Fprintf(a.out, "Total:    %s\n", formatMoney(o.Total))
	if o.DeliveryAddress != "" {
		fmt.Fprintf(a.out, "Deliver:  %s\n", o.DeliveryAddress)
	}
	if o.StatusNote != "" {
		fmt.Fprintf(a.out, "Note:     %s\n", o.StatusNote)
	}
	if o.EstimatedCompletion != nil {
		fmt.Fprintf(a.out, "ETA:      %s\n", formatTime(*o.EstimatedCompletion))
	}
	if o.TrackingNumber != "" {
		fmt.Fprintf(a.out, "Tracking: %s\n", o.TrackingNumber)
	}
}

// UpdateStatus records fabrication progress.
func (a *OrderAdapter) UpdateStatus(ctx context.Context, req primary.UpdateOrderStatusRequest) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	o, err := a.orders.UpdateStatus(ctx, p, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Order %s is now %s\n", o.ID, o.Status)
	return nil
}

// Stats prints order counts per status.
func (a *OrderAdapter) Stats(ctx context.Context) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	counts, err := a.orders.OrderStats(ctx, p)
	if err != nil {
		return err
	}
	for _, status := range []string{"confirmed", "materials", "building", "finishing", "ready", "shipped", "delivered", "completed"} {
		fmt.Fprintf(a.out, "%s %d\n", colorStatus(status), counts[status])
	}
	return nil
}

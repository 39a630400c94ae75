package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/ports/primary"
)

// ClientAdapter translates client profile commands to ClientService calls.
type ClientAdapter struct {
	guard   primary.AccessGuard
	clients primary.ClientService
	out     io.Writer
}

// NewClientAdapter creates a new ClientAdapter.
func NewClientAdapter(guard primary.AccessGuard, clients primary.ClientService, out io.Writer) *ClientAdapter {
	return &ClientAdapter{guard: guard, clients: clients, out: out}
}

// Create registers a client profile.
func (a *ClientAdapter) Create(ctx context.Context, req primary.CreateClientRequest) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	c, err := a.clients.CreateClient(ctx, p, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created client %s: %s\n", c.ID, c.Name)
	return nil
}

// List lists all client profiles.
func (a *ClientAdapter) List(ctx context.Context) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	clients, err := a.clients.ListClients(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	if len(clients) == 0 {
		fmt.Fprintln(a.out, "No clients found")
		return nil
	}
	fmt.Fprintf(a.out, "\n%-12s %-24s %s\n", "ID", "NAME", "EMAIL")
	fmt.Fprintln(a.out, rule)
	for _, c := range clients {
		fmt.Fprintf(a.out, "%-12s %-24s %s\n", c.ID, c.Name, c.Email)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a client profile.
func (a *ClientAdapter) Show(ctx context.Context, clientID string) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	c, err := a.clients.GetClient(ctx, p, clientID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	fmt.Fprintf(a.out, "\nClient:  %s\n", c.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", c.Name)
	if c.Email != "" {
		fmt.Fprintf(a.out, "Email:   %s\n", c.Email)
	}
	if addr := formatAddress(c.Address); addr != "" {
		fmt.Fprintf(a.out, "Address: %s\n", addr)
	}
	return nil
}

// SetAddress replaces a client's address.
func (a *ClientAdapter) SetAddress(ctx context.Context, clientID string, addr primary.Address) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	c, err := a.clients.UpdateAddress(ctx, p, clientID, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Updated address for %s\n", c.ID)
	return nil
}

func formatAddress(addr primary.Address) string {
	return order.SnapshotAddress(order.Address{
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	})
}

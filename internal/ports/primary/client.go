package primary

import (
	"context"

	"github.com/example/quotedesk/internal/core/access"
)

// ClientService defines the primary port for client profiles.
type ClientService interface {
	// CreateClient registers a client profile (staff).
	CreateClient(ctx context.Context, p access.Principal, req CreateClientRequest) (*Client, error)

	// GetClient retrieves a profile (staff, or the client itself).
	GetClient(ctx context.Context, p access.Principal, clientID string) (*Client, error)

	// ListClients lists all profiles (staff).
	ListClients(ctx context.Context, p access.Principal) ([]*Client, error)

	// UpdateAddress replaces a profile address. Orders already placed keep
	// their snapshot.
	UpdateAddress(ctx context.Context, p access.Principal, clientID string, addr Address) (*Client, error)
}

// CreateClientRequest contains parameters for registering a client.
type CreateClientRequest struct {
	Name    string
	Email   string
	Address Address
}

// Address is a postal address at the port boundary.
type Address struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// Client represents a client profile at the port boundary.
type Client struct {
	ID      string
	Name    string
	Email   string
	Address Address
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// ClientServiceImpl implements the ClientService interface.
type ClientServiceImpl struct {
	clientRepo secondary.ClientRepository
	now        func() time.Time
}

// NewClientService creates a new ClientService with injected dependencies.
func NewClientService(clientRepo secondary.ClientRepository) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		now:        time.Now,
	}
}

// CreateClient registers a client profile.
func (s *ClientServiceImpl) CreateClient(ctx context.Context, p access.Principal, req primary.CreateClientRequest) (*primary.Client, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.InvalidState("client name is required")
	}

	now := s.now().UTC()
	record := &secondary.ClientRecord{
		Name:      req.Name,
		Email:     req.Email,
		Address:   addressToRecord(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clientRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return recordToClient(record), nil
}

// GetClient retrieves a client profile.
func (s *ClientServiceImpl) GetClient(ctx context.Context, p access.Principal, clientID string) (*primary.Client, error) {
	if err := access.CanView(p, clientID).Error(); err != nil {
		return nil, err
	}
	record, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return recordToClient(record), nil
}

// ListClients lists all client profiles.
func (s *ClientServiceImpl) ListClients(ctx context.Context, p access.Principal) ([]*primary.Client, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}
	records, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	clients := make([]*primary.Client, len(records))
	for i, r := range records {
		clients[i] = recordToClient(r)
	}
	return clients, nil
}

// UpdateAddress replaces a profile address.
func (s *ClientServiceImpl) UpdateAddress(ctx context.Context, p access.Principal, clientID string, addr primary.Address) (*primary.Client, error) {
	if err := access.CanView(p, clientID).Error(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.UpdateAddress(ctx, clientID, addressToRecord(addr), s.now().UTC()); err != nil {
		return nil, err
	}
	return s.GetClient(ctx, p, clientID)
}

// Helper methods

func addressToRecord(a primary.Address) secondary.AddressRecord {
	return secondary.AddressRecord{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func recordToClient(r *secondary.ClientRecord) *primary.Client {
	return &primary.Client{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Address: primary.Address{
			Line1:      r.Address.Line1,
			Line2:      r.Address.Line2,
			City:       r.Address.City,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
	}
}

// Ensure ClientServiceImpl implements the interface.
var _ primary.ClientService = (*ClientServiceImpl)(nil)

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/core/ledger"
	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/core/quote"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// QuoteOptions tunes the quote lifecycle.
type QuoteOptions struct {
	// ValidityDays is how long a sent quote can be accepted. Zero means
	// quote.DefaultValidityDays.
	ValidityDays int
}

// QuoteServiceImpl implements the QuoteService interface.
type QuoteServiceImpl struct {
	quoteRepo    secondary.QuoteRepository
	itemRepo     secondary.LineItemRepository
	orderRepo    secondary.OrderRepository
	clientRepo   secondary.ClientRepository
	publisher    secondary.EventPublisher
	logger       logrus.FieldLogger
	validityDays int
	now          func() time.Time
}

// NewQuoteService creates a new QuoteService with injected dependencies.
func NewQuoteService(
	quoteRepo secondary.QuoteRepository,
	itemRepo secondary.LineItemRepository,
	orderRepo secondary.OrderRepository,
	clientRepo secondary.ClientRepository,
	publisher secondary.EventPublisher,
	logger logrus.FieldLogger,
	opts QuoteOptions,
) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		quoteRepo:    quoteRepo,
		itemRepo:     itemRepo,
		orderRepo:    orderRepo,
		clientRepo:   clientRepo,
		publisher:    publisher,
		logger:       logger,
		validityDays: opts.ValidityDays,
		now:          time.Now,
	}
}

// CreateQuote submits a new quote request owned by the calling client.
func (s *QuoteServiceImpl) CreateQuote(ctx context.Context, p access.Principal, req primary.CreateQuoteRequest) (*primary.CreateQuoteResponse, error) {
	if err := quote.CanCreateQuote(quote.CreateQuoteContext{Principal: p, Quantity: req.Quantity}).Error(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &secondary.QuoteRecord{
		ClientID:    p.ID,
		Status:      string(quote.InitialStatus()),
		WoodType:    req.WoodType,
		PowerSource: req.PowerSource,
		Dimensions:  req.Dimensions,
		Quantity:    req.Quantity,
		ClientNotes: req.ClientNotes,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.quoteRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.publisher.Publish(ctx, events.QuoteTransitioned{
		QuoteID:  record.ID,
		ClientID: record.ClientID,
		To:       record.Status,
		ActorID:  p.ID,
		At:       now,
	})

	return &primary.CreateQuoteResponse{
		QuoteID: record.ID,
		Quote:   recordToQuote(record),
	}, nil
}

// GetQuote retrieves a quote visible to the principal.
func (s *QuoteServiceImpl) GetQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := access.CanView(p, record.ClientID).Error(); err != nil {
		return nil, err
	}
	return recordToQuote(record), nil
}

// ListQuotes lists quotes. Clients only ever see their own.
func (s *QuoteServiceImpl) ListQuotes(ctx context.Context, p access.Principal, filters primary.QuoteFilters) ([]*primary.Quote, error) {
	clientID := filters.ClientID
	if !p.IsStaff() {
		if clientID != "" && clientID != p.ID {
			return nil, apperr.Forbidden("principal %s cannot list quotes of %s", p.ID, clientID)
		}
		clientID = p.ID
	}

	records, err := s.quoteRepo.List(ctx, secondary.QuoteFilters{ClientID: clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	quotes := make([]*primary.Quote, 0, len(records))
	for _, r := range records {
		s.applyExpiry(ctx, r)
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		quotes = append(quotes, recordToQuote(r))
	}
	return quotes, nil
}

// StartReview moves a submitted quote to reviewing.
func (s *QuoteServiceImpl) StartReview(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(quote.ActionReview, p, record, 0); err != nil {
		return nil, err
	}
	if err := s.write(ctx, p, record, quote.StatusReviewing, record.QuotedTotal, record.ValidUntil); err != nil {
		return nil, err
	}
	return recordToQuote(record), nil
}

// SendQuote snapshots the current ledger total into the quote and starts
// its validity window.
func (s *QuoteServiceImpl) SendQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByQuote(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	if err := s.guard(quote.ActionSend, p, record, len(items)); err != nil {
		return nil, err
	}

	total, err := ledger.Total(toLedgerItems(items))
	if err != nil {
		return nil, err
	}
	sent := quote.ApplySend(total, s.now().UTC(), s.validityDays)
	if err := s.write(ctx, p, record, sent.NewStatus, &sent.QuotedTotal, &sent.ValidUntil); err != nil {
		return nil, err
	}
	return recordToQuote(record), nil
}

// AcceptQuote accepts a quoted quote and promotes it to an order. The quote
// update and the order insert commit together or not at all.
func (s *QuoteServiceImpl) AcceptQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.AcceptQuoteResponse, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(quote.ActionAccept, p, record, 0); err != nil {
		return nil, err
	}
	if record.QuotedTotal == nil {
		return nil, apperr.InvalidState("quote %s has no quoted total", record.ID)
	}

	address, err := s.deliveryAddress(ctx, record.ClientID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	orderRecord := &secondary.OrderRecord{
		QuoteID:         record.ID,
		ClientID:        record.ClientID,
		Status:          string(order.InitialStatus()),
		DeliveryAddress: address,
		Total:           *record.QuotedTotal,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	accept := secondary.QuoteStatusUpdate{
		ID:              record.ID,
		ExpectedVersion: record.Version,
		Status:          string(quote.StatusAccepted),
		QuotedTotal:     record.QuotedTotal,
		ValidUntil:      record.ValidUntil,
		UpdatedAt:       now,
	}
	if err := s.orderRepo.CreateFromAcceptedQuote(ctx, accept, orderRecord); err != nil {
		return nil, fmt.Errorf("failed to accept quote %s: %w", record.ID, err)
	}

	from := record.Status
	record.Status = accept.Status
	record.Version++
	record.UpdatedAt = now

	s.logger.WithFields(logrus.Fields{
		"quote_id": record.ID,
		"order_id": orderRecord.ID,
		"total":    orderRecord.Total,
	}).Info("quote accepted")

	s.publisher.Publish(ctx,
		events.QuoteTransitioned{QuoteID: record.ID, ClientID: record.ClientID, From: from, To: record.Status, ActorID: p.ID, At: now},
		events.OrderCreated{OrderID: orderRecord.ID, QuoteID: record.ID, ClientID: record.ClientID, Total: orderRecord.Total, At: now},
	)

	return &primary.AcceptQuoteResponse{
		Quote: recordToQuote(record),
		Order: recordToOrder(orderRecord),
	}, nil
}

// RejectQuote rejects a quoted quote. The snapshot total is kept for the
// record until the quote is reopened.
func (s *QuoteServiceImpl) RejectQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(quote.ActionReject, p, record, 0); err != nil {
		return nil, err
	}
	if err := s.write(ctx, p, record, quote.StatusRejected, record.QuotedTotal, record.ValidUntil); err != nil {
		return nil, err
	}
	return recordToQuote(record), nil
}

// ReopenQuote resubmits a rejected or expired quote, clearing its total and
// validity. Line items are left untouched.
func (s *QuoteServiceImpl) ReopenQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard(quote.ActionReopen, p, record, 0); err != nil {
		return nil, err
	}
	if err := s.write(ctx, p, record, quote.StatusSubmitted, nil, nil); err != nil {
		return nil, err
	}
	return recordToQuote(record), nil
}

// UpdateStaffNotes replaces the staff notes of a quote.
func (s *QuoteServiceImpl) UpdateStaffNotes(ctx context.Context, p access.Principal, quoteID, notes string) (*primary.Quote, error) {
	record, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := quote.CanUpdateStaffNotes(quote.StaffNotesContext{Principal: p, QuoteID: record.ID}).Error(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.quoteRepo.UpdateStaffNotes(ctx, record.ID, record.Version, notes, now); err != nil {
		return nil, fmt.Errorf("failed to update staff notes: %w", err)
	}
	record.StaffNotes = notes
	record.Version++
	record.UpdatedAt = now
	return recordToQuote(record), nil
}

// QuoteStats counts quotes per effective status.
func (s *QuoteServiceImpl) QuoteStats(ctx context.Context, p access.Principal) (map[string]int, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}

	counts, err := s.quoteRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	// Stored quoted quotes may have lapsed since they were last read.
	quoted, err := s.quoteRepo.List(ctx, secondary.QuoteFilters{Status: string(quote.StatusQuoted)})
	if err != nil {
		return nil, fmt.Errorf("failed to list quoted quotes: %w", err)
	}
	for _, r := range quoted {
		if s.applyExpiry(ctx, r) {
			counts[string(quote.StatusQuoted)]--
			counts[string(quote.StatusExpired)]++
		}
	}
	return counts, nil
}

// Helper methods

// load fetches a quote and applies lazy expiry.
func (s *QuoteServiceImpl) load(ctx context.Context, quoteID string) (*secondary.QuoteRecord, error) {
	record, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	s.applyExpiry(ctx, record)
	return record, nil
}

// applyExpiry marks a lapsed quoted record as expired and persists that on a
// best-effort basis. Reports whether the record expired.
func (s *QuoteServiceImpl) applyExpiry(ctx context.Context, record *secondary.QuoteRecord) bool {
	now := s.now().UTC()
	stored := quote.Status(record.Status)
	if quote.EffectiveStatus(stored, record.ValidUntil, now) == stored {
		return false
	}

	record.Status = string(quote.StatusExpired)
	err := s.quoteRepo.UpdateStatus(ctx, secondary.QuoteStatusUpdate{
		ID:              record.ID,
		ExpectedVersion: record.Version,
		Status:          record.Status,
		QuotedTotal:     record.QuotedTotal,
		ValidUntil:      record.ValidUntil,
		UpdatedAt:       now,
	})
	if err != nil {
		s.logger.WithError(err).WithField("quote_id", record.ID).Warn("failed to persist quote expiry")
		return true
	}

	record.Version++
	record.UpdatedAt = now
	s.publisher.Publish(ctx, events.QuoteTransitioned{
		QuoteID:  record.ID,
		ClientID: record.ClientID,
		From:     string(stored),
		To:       record.Status,
		At:       now,
	})
	return true
}

func (s *QuoteServiceImpl) guard(action quote.Action, p access.Principal, record *secondary.QuoteRecord, itemCount int) error {
	return quote.CanTransition(action, quote.TransitionContext{
		Principal:     p,
		QuoteID:       record.ID,
		OwnerID:       record.ClientID,
		Status:        quote.Status(record.Status),
		LineItemCount: itemCount,
	}).Error()
}

// write persists a status change with a version check and publishes it.
func (s *QuoteServiceImpl) write(ctx context.Context, p access.Principal, record *secondary.QuoteRecord, to quote.Status, total *int64, validUntil *time.Time) error {
	now := s.now().UTC()
	err := s.quoteRepo.UpdateStatus(ctx, secondary.QuoteStatusUpdate{
		ID:              record.ID,
		ExpectedVersion: record.Version,
		Status:          string(to),
		QuotedTotal:     total,
		ValidUntil:      validUntil,
		UpdatedAt:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to move quote %s to %s: %w", record.ID, to, err)
	}

	from := record.Status
	record.Status = string(to)
	record.QuotedTotal = total
	record.ValidUntil = validUntil
	record.Version++
	record.UpdatedAt = now

	s.logger.WithFields(logrus.Fields{
		"quote_id": record.ID,
		"from":     from,
		"to":       record.Status,
	}).Info("quote transitioned")

	s.publisher.Publish(ctx, events.QuoteTransitioned{
		QuoteID:  record.ID,
		ClientID: record.ClientID,
		From:     from,
		To:       record.Status,
		ActorID:  p.ID,
		At:       now,
	})
	return nil
}

// deliveryAddress snapshots the client's current profile address. A client
// without a profile gets an empty address rather than a failed acceptance.
func (s *QuoteServiceImpl) deliveryAddress(ctx context.Context, clientID string) (string, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.WithField("client_id", clientID).Warn("no client profile, order has no delivery address")
			return "", nil
		}
		return "", fmt.Errorf("failed to load client profile: %w", err)
	}
	return order.SnapshotAddress(addressFromRecord(client.Address)), nil
}

func addressFromRecord(a secondary.AddressRecord) order.Address {
	return order.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func recordToQuote(r *secondary.QuoteRecord) *primary.Quote {
	return &primary.Quote{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Status:      r.Status,
		WoodType:    r.WoodType,
		PowerSource: r.PowerSource,
		Dimensions:  r.Dimensions,
		Quantity:    r.Quantity,
		ClientNotes: r.ClientNotes,
		StaffNotes:  r.StaffNotes,
		QuotedTotal: r.QuotedTotal,
		ValidUntil:  r.ValidUntil,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure QuoteServiceImpl implements the interface.
var _ primary.QuoteService = (*QuoteServiceImpl)(nil)

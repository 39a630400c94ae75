package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/ledger"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	quoteRepo secondary.QuoteRepository
	itemRepo  secondary.LineItemRepository
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(quoteRepo secondary.QuoteRepository, itemRepo secondary.LineItemRepository, logger logrus.FieldLogger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		quoteRepo: quoteRepo,
		itemRepo:  itemRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// AddLineItem appends a line item to an editable quote.
func (s *LedgerServiceImpl) AddLineItem(ctx context.Context, p access.Principal, req primary.AddLineItemRequest) (*primary.LineItem, error) {
	q, err := s.quoteRepo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}

	if err := ledger.CanEditLineItems(ledger.EditContext{Principal: p, QuoteID: q.ID, QuoteStatus: q.Status}).Error(); err != nil {
		return nil, err
	}
	if err := ledger.ValidateNewItem(ledger.NewItemContext{
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}).Error(); err != nil {
		return nil, err
	}

	existing, err := s.itemRepo.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	orders := make([]int, len(existing))
	for i, it := range existing {
		orders[i] = it.SortOrder
	}

	now := s.now().UTC()
	record := &secondary.LineItemRecord{
		ID:          uuid.NewString(),
		QuoteID:     q.ID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		SortOrder:   ledger.NextSortOrder(orders),
		CreatedAt:   now,
	}
	if err := s.itemRepo.Add(ctx, record, s.versionGuard(q, now)); err != nil {
		return nil, fmt.Errorf("failed to add line item: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"quote_id":     q.ID,
		"line_item_id": record.ID,
	}).Debug("line item added")

	return recordToLineItem(record), nil
}

// RemoveLineItem deletes a line item from an editable quote.
func (s *LedgerServiceImpl) RemoveLineItem(ctx context.Context, p access.Principal, lineItemID string) error {
	item, err := s.itemRepo.GetByID(ctx, lineItemID)
	if err != nil {
		return err
	}
	q, err := s.quoteRepo.GetByID(ctx, item.QuoteID)
	if err != nil {
		return err
	}

	if err := ledger.CanEditLineItems(ledger.EditContext{Principal: p, QuoteID: q.ID, QuoteStatus: q.Status}).Error(); err != nil {
		return err
	}

	if err := s.itemRepo.Remove(ctx, item.ID, s.versionGuard(q, s.now().UTC())); err != nil {
		return fmt.Errorf("failed to remove line item: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"quote_id":     q.ID,
		"line_item_id": item.ID,
	}).Debug("line item removed")
	return nil
}

// ComputeTotal recomputes the quote total from its current line items.
func (s *LedgerServiceImpl) ComputeTotal(ctx context.Context, p access.Principal, quoteID string) (int64, error) {
	items, err := s.visibleItems(ctx, p, quoteID)
	if err != nil {
		return 0, err
	}
	return ledger.Total(toLedgerItems(items))
}

// ListLineItems returns the quote's line items in display order.
func (s *LedgerServiceImpl) ListLineItems(ctx context.Context, p access.Principal, quoteID string) ([]*primary.LineItem, error) {
	items, err := s.visibleItems(ctx, p, quoteID)
	if err != nil {
		return nil, err
	}
	result := make([]*primary.LineItem, len(items))
	for i, it := range items {
		result[i] = recordToLineItem(it)
	}
	return result, nil
}

// Helper methods

func (s *LedgerServiceImpl) visibleItems(ctx context.Context, p access.Principal, quoteID string) ([]*secondary.LineItemRecord, error) {
	q, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := access.CanView(p, q.ClientID).Error(); err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	return items, nil
}

func (s *LedgerServiceImpl) versionGuard(q *secondary.QuoteRecord, at time.Time) secondary.QuoteVersionGuard {
	return secondary.QuoteVersionGuard{
		QuoteID:          q.ID,
		ExpectedVersion:  q.Version,
		EditableStatuses: ledger.EditableStatuses,
		At:               at,
	}
}

func toLedgerItems(items []*secondary.LineItemRecord) []ledger.Item {
	out := make([]ledger.Item, len(items))
	for i, it := range items {
		out[i] = ledger.Item{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return out
}

func recordToLineItem(r *secondary.LineItemRecord) *primary.LineItem {
	return &primary.LineItem{
		ID:          r.ID,
		QuoteID:     r.QuoteID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		LineTotal:   ledger.LineTotal(r.Quantity, r.UnitPrice),
		SortOrder:   r.SortOrder,
	}
}

// Ensure LedgerServiceImpl implements the interface.
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)

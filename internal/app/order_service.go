package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// OrderServiceImpl implements the OrderService interface.
type OrderServiceImpl struct {
	orderRepo secondary.OrderRepository
	publisher secondary.EventPublisher
	logger    logrus.FieldLogger
	policy    order.Policy
	now       func() time.Time
}

// NewOrderService creates a new OrderService with injected dependencies.
func NewOrderService(orderRepo secondary.OrderRepository, publisher secondary.EventPublisher, logger logrus.FieldLogger, policy order.Policy) *OrderServiceImpl {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
		policy:    policy,
		now:       time.Now,
	}
}

// GetOrder retrieves an order visible to the principal.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, p access.Principal, orderID string) (*primary.Order, error) {
	record, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := access.CanView(p, record.ClientID).Error(); err != nil {
		return nil, err
	}
	return recordToOrder(record), nil
}

// GetOrderByQuote retrieves the order promoted from a quote.
func (s *OrderServiceImpl) GetOrderByQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Order, error) {
	record, err := s.orderRepo.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := access.CanView(p, record.ClientID).Error(); err != nil {
		return nil, err
	}
	return recordToOrder(record), nil
}

// ListOrders lists orders. Clients only ever see their own.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, p access.Principal, filters primary.OrderFilters) ([]*primary.Order, error) {
	clientID := filters.ClientID
	if !p.IsStaff() {
		if clientID != "" && clientID != p.ID {
			return nil, apperr.Forbidden("principal %s cannot list orders of %s", p.ID, clientID)
		}
		clientID = p.ID
	}

	records, err := s.orderRepo.List(ctx, secondary.OrderFilters{ClientID: clientID, Status: filters.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*primary.Order, len(records))
	for i, r := range records {
		orders[i] = recordToOrder(r)
	}
	return orders, nil
}

// UpdateStatus applies a staff status update. When the status actually
// changes an OrderStatusChanged event is published after the write commits;
// what subscribers do with it cannot undo the update.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, p access.Principal, req primary.UpdateOrderStatusRequest) (*primary.Order, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	record, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	current := order.Status(record.Status)

	if err := order.CanUpdateStatus(order.UpdateStatusContext{
		Principal: p,
		OrderID:   record.ID,
		Current:   current,
		Next:      next,
		Policy:    s.policy,
	}).Error(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	update := secondary.OrderStatusUpdate{
		ID:                  record.ID,
		ExpectedVersion:     record.Version,
		Status:              string(next),
		StatusNote:          req.Note,
		EstimatedCompletion: req.EstimatedCompletion,
		TrackingNumber:      req.TrackingNumber,
		UpdatedAt:           now,
	}
	if err := s.orderRepo.UpdateStatus(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", record.ID, err)
	}

	if next != current {
		s.logger.WithFields(logrus.Fields{
			"order_id": record.ID,
			"from":     current,
			"to":       next,
		}).Info("order status changed")

		s.publisher.Publish(ctx, events.OrderStatusChanged{
			OrderID:  record.ID,
			ClientID: record.ClientID,
			From:     string(current),
			To:       string(next),
			ActorID:  p.ID,
			At:       now,
		})
	}

	updated, err := s.orderRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated order: %w", err)
	}
	return recordToOrder(updated), nil
}

// OrderStats counts orders per status.
func (s *OrderServiceImpl) OrderStats(ctx context.Context, p access.Principal) (map[string]int, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	return counts, nil
}

// Helper methods

func recordToOrder(r *secondary.OrderRecord) *primary.Order {
	return &primary.Order{
		ID:                  r.ID,
		QuoteID:             r.QuoteID,
		ClientID:            r.ClientID,
		Status:              r.Status,
		StatusNote:          r.StatusNote,
		EstimatedCompletion: r.EstimatedCompletion,
		TrackingNumber:      r.TrackingNumber,
		DeliveryAddress:     r.DeliveryAddress,
		Total:               r.Total,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// Ensure OrderServiceImpl implements the interface.
var _ primary.OrderService = (*OrderServiceImpl)(nil)

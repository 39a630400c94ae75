package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

const orderColumns = "id, quote_id, client_id, status, status_note, estimated_completion, tracking_number, delivery_address, total, version, created_at, updated_at"

// OrderRepository implements secondary.OrderRepository with database/sql.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromAcceptedQuote accepts the quote and inserts its order in one
// transaction. A lost version check on the quote aborts both writes.
func (r *OrderRepository) CreateFromAcceptedQuote(ctx context.Context, accept secondary.QuoteStatusUpdate, order *secondary.OrderRecord) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateQuoteStatus(ctx, tx, accept); err != nil {
			return err
		}

		var existing int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE quote_id = $1", order.QuoteID).Scan(&existing); err != nil {
			return fmt.Errorf("failed to check existing order: %w", err)
		}
		if existing > 0 {
			return apperr.Conflict("quote %s already has an order", order.QuoteID)
		}

		id, err := nextID(ctx, tx, "orders", "ORDER-")
		if err != nil {
			return err
		}
		if order.Version == 0 {
			order.Version = 1
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
			id, order.QuoteID, order.ClientID, order.Status, order.StatusNote, nullTime(order.EstimatedCompletion),
			order.TrackingNumber, order.DeliveryAddress, order.Total, order.Version,
			order.CreatedAt.UTC(), order.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		order.ID = id
		return nil
	})
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	record, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return record, nil
}

// GetByQuoteID retrieves the order promoted from a quote.
func (r *OrderRepository) GetByQuoteID(ctx context.Context, quoteID string) (*secondary.OrderRecord, error) {
	record, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE quote_id = $1", quoteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order for quote %s", quoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return record, nil
}

// List retrieves orders matching the given filters, newest first.
func (r *OrderRepository) List(ctx context.Context, filters secondary.OrderFilters) ([]*secondary.OrderRecord, error) {
	var fb filterBuilder
	if filters.ClientID != "" {
		fb.add("client_id", filters.ClientID)
	}
	if filters.Status != "" {
		fb.add("status", filters.Status)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders"+fb.where()+" ORDER BY created_at DESC, id DESC", fb.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*secondary.OrderRecord
	for rows.Next() {
		record, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, record)
	}
	return orders, rows.Err()
}

// UpdateStatus applies a version-checked status update. Nil optional fields
// keep their stored values.
func (r *OrderRepository) UpdateStatus(ctx context.Context, update secondary.OrderStatusUpdate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET
			status = $1,
			status_note = COALESCE($2, status_note),
			estimated_completion = COALESCE($3, estimated_completion),
			tracking_number = COALESCE($4, tracking_number),
			updated_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7`,
		update.Status, nullString(update.StatusNote), nullTime(update.EstimatedCompletion), nullString(update.TrackingNumber),
		update.UpdatedAt.UTC(), update.ID, update.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return versionMiss(ctx, r.db, "orders", "order", update.ID)
	}
	return nil
}

// CountByStatus returns order counts keyed by status.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "orders")
}

// Promotions maps every promoted quote ID to its order ID.
func (r *OrderRepository) Promotions(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT quote_id, id FROM orders")
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	promotions := make(map[string]string)
	for rows.Next() {
		var quoteID, orderID string
		if err := rows.Scan(&quoteID, &orderID); err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions[quoteID] = orderID
	}
	return promotions, rows.Err()
}

func scanOrder(row rowScanner) (*secondary.OrderRecord, error) {
	var (
		record secondary.OrderRecord
		eta    sql.NullTime
	)
	err := row.Scan(
		&record.ID, &record.QuoteID, &record.ClientID, &record.Status, &record.StatusNote, &eta,
		&record.TrackingNumber, &record.DeliveryAddress, &record.Total, &record.Version,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.EstimatedCompletion = timeFromNull(eta)
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

// Ensure OrderRepository implements the interface.
var _ secondary.OrderRepository = (*OrderRepository)(nil)

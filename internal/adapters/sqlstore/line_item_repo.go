package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// LineItemRepository implements secondary.LineItemRepository with database/sql.
type LineItemRepository struct {
	db *sql.DB
}

// NewLineItemRepository creates a new line item repository.
func NewLineItemRepository(db *sql.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

// Add inserts an item and bumps the parent quote version in one transaction.
func (r *LineItemRepository) Add(ctx context.Context, item *secondary.LineItemRecord, guard secondary.QuoteVersionGuard) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := bumpQuoteVersion(ctx, tx, guard); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO quote_line_items (id, quote_id, description, quantity, unit_price, sort_order, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			item.ID, guard.QuoteID, item.Description, item.Quantity, item.UnitPrice, item.SortOrder, item.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create line item: %w", err)
		}
		return nil
	})
}

// Remove deletes an item and bumps the parent quote version in one transaction.
func (r *LineItemRepository) Remove(ctx context.Context, itemID string, guard secondary.QuoteVersionGuard) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := bumpQuoteVersion(ctx, tx, guard); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM quote_line_items WHERE id = $1 AND quote_id = $2", itemID, guard.QuoteID)
		if err != nil {
			return fmt.Errorf("failed to delete line item: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return apperr.NotFound("line item %s", itemID)
		}
		return nil
	})
}

// GetByID retrieves a line item by its ID.
func (r *LineItemRepository) GetByID(ctx context.Context, id string) (*secondary.LineItemRecord, error) {
	record := &secondary.LineItemRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, quote_id, description, quantity, unit_price, sort_order, created_at FROM quote_line_items WHERE id = $1",
		id,
	).Scan(&record.ID, &record.QuoteID, &record.Description, &record.Quantity, &record.UnitPrice, &record.SortOrder, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("line item %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

// ListByQuote retrieves the items of a quote ordered by sort order.
func (r *LineItemRepository) ListByQuote(ctx context.Context, quoteID string) ([]*secondary.LineItemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, quote_id, description, quantity, unit_price, sort_order, created_at FROM quote_line_items WHERE quote_id = $1 ORDER BY sort_order ASC, created_at ASC",
		quoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.LineItemRecord
	for rows.Next() {
		record := &secondary.LineItemRecord{}
		if err := rows.Scan(&record.ID, &record.QuoteID, &record.Description, &record.Quantity, &record.UnitPrice, &record.SortOrder, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		record.CreatedAt = record.CreatedAt.UTC()
		items = append(items, record)
	}
	return items, rows.Err()
}

// bumpQuoteVersion advances the quote version if it is still at the guarded
// version and in an editable status.
func bumpQuoteVersion(ctx context.Context, tx *sql.Tx, guard secondary.QuoteVersionGuard) error {
	args := []any{guard.At.UTC(), guard.QuoteID, guard.ExpectedVersion}
	for _, s := range guard.EditableStatuses {
		args = append(args, s)
	}
	query := "UPDATE quotes SET version = version + 1, updated_at = $1 WHERE id = $2 AND version = $3"
	if len(guard.EditableStatuses) > 0 {
		query += " AND status IN (" + placeholders(4, len(guard.EditableStatuses)) + ")"
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to bump quote version: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return versionMiss(ctx, tx, "quotes", "quote", guard.QuoteID)
	}
	return nil
}

// Ensure LineItemRepository implements the interface.
var _ secondary.LineItemRepository = (*LineItemRepository)(nil)

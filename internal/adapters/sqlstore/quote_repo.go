package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

const quoteColumns = "id, client_id, status, wood_type, power_source, dimensions, quantity, client_notes, staff_notes, quoted_total, valid_until, version, created_at, updated_at"

// QuoteRepository implements secondary.QuoteRepository with database/sql.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create persists a new quote. An empty ID is allocated in the same
// transaction as the insert and written back to quote.ID.
func (r *QuoteRepository) Create(ctx context.Context, quote *secondary.QuoteRecord) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		id := quote.ID
		if id == "" {
			var err error
			if id, err = nextID(ctx, tx, "quotes", "QUOTE-"); err != nil {
				return err
			}
		}
		if quote.Version == 0 {
			quote.Version = 1
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO quotes ("+quoteColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
			id, quote.ClientID, quote.Status, quote.WoodType, quote.PowerSource, quote.Dimensions,
			quote.Quantity, quote.ClientNotes, quote.StaffNotes,
			nullInt64(quote.QuotedTotal), nullTime(quote.ValidUntil),
			quote.Version, quote.CreatedAt.UTC(), quote.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		quote.ID = id
		return nil
	})
}

// GetByID retrieves a quote by its ID.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*secondary.QuoteRecord, error) {
	record, err := scanQuote(r.db.QueryRowContext(ctx, "SELECT "+quoteColumns+" FROM quotes WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("quote %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return record, nil
}

// List retrieves quotes matching the given filters, newest first.
func (r *QuoteRepository) List(ctx context.Context, filters secondary.QuoteFilters) ([]*secondary.QuoteRecord, error) {
	var fb filterBuilder
	if filters.ClientID != "" {
		fb.add("client_id", filters.ClientID)
	}
	if filters.Status != "" {
		fb.add("status", filters.Status)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+quoteColumns+" FROM quotes"+fb.where()+" ORDER BY created_at DESC, id DESC", fb.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*secondary.QuoteRecord
	for rows.Next() {
		record, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, record)
	}
	return quotes, rows.Err()
}

// UpdateStatus writes status, total and validity if the version still matches.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, update secondary.QuoteStatusUpdate) error {
	return updateQuoteStatus(ctx, r.db, update)
}

// UpdateStaffNotes replaces staff notes if the version still matches.
func (r *QuoteRepository) UpdateStaffNotes(ctx context.Context, id string, expectedVersion int64, notes string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE quotes SET staff_notes = $1, updated_at = $2, version = version + 1 WHERE id = $3 AND version = $4",
		notes, at.UTC(), id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff notes: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return versionMiss(ctx, r.db, "quotes", "quote", id)
	}
	return nil
}

// CountByStatus returns stored quote counts keyed by status.
func (r *QuoteRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "quotes")
}

// updateQuoteStatus is shared with the order repository, which runs it
// inside the accept transaction.
func updateQuoteStatus(ctx context.Context, q querier, update secondary.QuoteStatusUpdate) error {
	result, err := q.ExecContext(ctx,
		"UPDATE quotes SET status = $1, quoted_total = $2, valid_until = $3, updated_at = $4, version = version + 1 WHERE id = $5 AND version = $6",
		update.Status, nullInt64(update.QuotedTotal), nullTime(update.ValidUntil), update.UpdatedAt.UTC(),
		update.ID, update.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return versionMiss(ctx, q, "quotes", "quote", update.ID)
	}
	return nil
}

func scanQuote(row rowScanner) (*secondary.QuoteRecord, error) {
	var (
		record      secondary.QuoteRecord
		quotedTotal sql.NullInt64
		validUntil  sql.NullTime
	)
	err := row.Scan(
		&record.ID, &record.ClientID, &record.Status, &record.WoodType, &record.PowerSource, &record.Dimensions,
		&record.Quantity, &record.ClientNotes, &record.StaffNotes, &quotedTotal, &validUntil,
		&record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.QuotedTotal = int64FromNull(quotedTotal)
	record.ValidUntil = timeFromNull(validUntil)
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

// Ensure QuoteRepository implements the interface.
var _ secondary.QuoteRepository = (*QuoteRepository)(nil)

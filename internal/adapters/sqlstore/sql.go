// Package sqlstore contains database/sql implementations of the repository
// interfaces. Queries use $N placeholders in order of first appearance, which
// both go-sqlite3 and the pgx stdlib driver bind positionally, so the same
// repositories run on SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/quotedesk/internal/apperr"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// withTx runs fn in a transaction, committing only if fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// placeholders returns "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// filterBuilder accumulates AND-ed WHERE clauses with numbered placeholders.
type filterBuilder struct {
	clauses []string
	args    []any
}

func (f *filterBuilder) add(column string, value any) {
	f.args = append(f.args, value)
	f.clauses = append(f.clauses, fmt.Sprintf("%s = $%d", column, len(f.args)))
}

func (f *filterBuilder) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// nextID returns the next sequential "<prefix>NNN" ID for table.
func nextID(ctx context.Context, q querier, table, prefix string) (string, error) {
	var maxID int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(REPLACE(id, $1, '') AS INTEGER)), 0) FROM %s", table),
		prefix,
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", table, err)
	}
	return fmt.Sprintf("%s%03d", prefix, maxID+1), nil
}

// versionMiss explains a compare-and-swap that matched no row: the row is
// either gone or was changed by someone else.
func versionMiss(ctx context.Context, q querier, table, entity, id string) error {
	var count int
	if err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = $1", table), id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", entity, err)
	}
	if count == 0 {
		return apperr.NotFound("%s %s", entity, id)
	}
	return apperr.Conflict("%s %s changed concurrently", entity, id)
}

func countByStatus(ctx context.Context, q querier, table string) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", table))
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", table, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", table, err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func int64FromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func timeFromNull(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time.UTC()
	return &v
}

func stringFromNull(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_quote_order_message_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "index_messages_by_creation",
		Up:      migrationV2,
	},
}

// LatestVersion returns the schema version a fully migrated database has.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations executes all pending migrations, each in its own
// transaction, and returns the ones it applied.
func RunMigrations(ctx context.Context, conn *sql.DB) ([]Migration, error) {
	if err := ensureVersionTable(ctx, conn); err != nil {
		return nil, err
	}

	current, err := currentVersion(ctx, conn)
	if err != nil {
		return nil, err
	}

	var applied []Migration
	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(ctx, tx); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version, applied_at) VALUES ($1, CURRENT_TIMESTAMP)", migration.Version); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
		applied = append(applied, migration)
	}

	return applied, nil
}

func ensureVersionTable(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

func currentVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// migrationV1 creates the quote, line item, order, message and client tables.
func migrationV1(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, SchemaSQL)
	return err
}

// migrationV2 adds the index the inbox uses to order messages.
func migrationV2(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)")
	return err
}

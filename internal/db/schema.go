package db

import (
	"context"
	"database/sql"
)

// SchemaSQL is the complete current schema for fresh installs.
//
// It is the single source of truth: repository tests load it through
// GetSchemaSQL, so a column referenced by code but missing here fails tests
// immediately with "no such column".
//
// The DDL is restricted to types and syntax both SQLite and PostgreSQL
// accept. Booleans are INTEGER 0/1 and money is BIGINT minor units.
//
// When changing it, add a migration to migrations.go as well.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	address_line1 TEXT NOT NULL DEFAULT '',
	address_line2 TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

-- client_id is not a foreign key: a quote may predate its client profile.
CREATE TABLE IF NOT EXISTS quotes (
	id TEXT PRIMARY KEY,
	client_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('draft', 'submitted', 'reviewing', 'quoted', 'accepted', 'rejected', 'expired')),
	wood_type TEXT NOT NULL DEFAULT '',
	power_source TEXT NOT NULL DEFAULT '',
	dimensions TEXT NOT NULL DEFAULT '',
	quantity INTEGER NOT NULL CHECK(quantity >= 1),
	client_notes TEXT NOT NULL DEFAULT '',
	staff_notes TEXT NOT NULL DEFAULT '',
	quoted_total BIGINT,
	valid_until TIMESTAMP,
	version BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	CHECK((quoted_total IS NULL) = (valid_until IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_quotes_client ON quotes(client_id);
CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes(status);

CREATE TABLE IF NOT EXISTS quote_line_items (
	id TEXT PRIMARY KEY,
	quote_id TEXT NOT NULL,
	description TEXT NOT NULL,
	quantity BIGINT NOT NULL CHECK(quantity >= 1),
	unit_price BIGINT NOT NULL CHECK(unit_price >= 0),
	sort_order INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	FOREIGN KEY (quote_id) REFERENCES quotes(id)
);

CREATE INDEX IF NOT EXISTS idx_line_items_quote ON quote_line_items(quote_id);

CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	quote_id TEXT NOT NULL UNIQUE,
	client_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('confirmed', 'materials', 'building', 'finishing', 'ready', 'shipped', 'delivered', 'completed')),
	status_note TEXT NOT NULL DEFAULT '',
	estimated_completion TIMESTAMP,
	tracking_number TEXT NOT NULL DEFAULT '',
	delivery_address TEXT NOT NULL DEFAULT '',
	total BIGINT NOT NULL,
	version BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	FOREIGN KEY (quote_id) REFERENCES quotes(id)
);

CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Exactly one parent: scope_type names the table scope_id points into.
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	scope_type TEXT NOT NULL CHECK(scope_type IN ('quote', 'order')),
	scope_id TEXT NOT NULL,
	sender_id TEXT,
	body TEXT NOT NULL,
	is_read INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_scope ON messages(scope_type, scope_id);
CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
`

// InitSchema brings the database to the current schema. A fresh database
// gets SchemaSQL directly with every migration marked applied; an existing
// one runs whatever migrations are pending.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if err := ensureVersionTable(ctx, conn); err != nil {
		return err
	}

	current, err := currentVersion(ctx, conn)
	if err != nil {
		return err
	}

	if current == 0 {
		if _, err := conn.ExecContext(ctx, SchemaSQL); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := conn.ExecContext(ctx, "INSERT INTO schema_version (version, applied_at) VALUES ($1, CURRENT_TIMESTAMP)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	_, err = RunMigrations(ctx, conn)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

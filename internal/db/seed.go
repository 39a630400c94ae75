package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: two
// clients, quotes in several statuses, one promoted order and a short
// conversation on each.
func SeedFixtures(ctx context.Context, database *sql.DB) error {
	now := time.Now().UTC().Truncate(time.Second)
	validUntil := now.AddDate(0, 0, 30)

	clients := []struct{ id, name, email, line1, city, postal, country string }{
		{"CLIENT-001", "Alice Ashford", "alice@example.com", "12 Mill Lane", "Ashford", "TN24 8AB", "UK"},
		{"CLIENT-002", "Bob Barnes", "bob@example.com", "3 Quay Street", "Bristol", "BS1 4DJ", "UK"},
	}
	for _, c := range clients {
		if _, err := database.ExecContext(ctx,
			"INSERT INTO clients (id, name, email, address_line1, city, postal_code, country, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
			c.id, c.name, c.email, c.line1, c.city, c.postal, c.country, now, now,
		); err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
	}

	quotes := []struct {
		id, clientID, status, wood, power, dims string
		total                                   *int64
		validUntil                              *time.Time
		version                                 int64
	}{
		{"QUOTE-001", "CLIENT-001", "submitted", "oak", "mains", "2000x900", nil, nil, 1},
		{"QUOTE-002", "CLIENT-001", "reviewing", "walnut", "battery", "1200x600", nil, nil, 2},
		{"QUOTE-003", "CLIENT-002", "quoted", "ash", "mains", "1800x800", int64Ptr(435000), &validUntil, 4},
		{"QUOTE-004", "CLIENT-002", "accepted", "oak", "solar", "2400x1000", int64Ptr(615000), &validUntil, 5},
	}
	for _, q := range quotes {
		if _, err := database.ExecContext(ctx,
			"INSERT INTO quotes (id, client_id, status, wood_type, power_source, dimensions, quantity, quoted_total, valid_until, version, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8, $9, $10, $11)",
			q.id, q.clientID, q.status, q.wood, q.power, q.dims, q.total, q.validUntil, q.version, now, now,
		); err != nil {
			return fmt.Errorf("seed quotes: %w", err)
		}
	}

	items := []struct {
		id, quoteID, desc string
		qty, price        int64
		sort              int
	}{
		{"LI-001", "QUOTE-002", "Walnut slab", 1, 280000, 10},
		{"LI-002", "QUOTE-003", "Post", 1, 420000, 10},
		{"LI-003", "QUOTE-003", "Delivery", 1, 15000, 20},
		{"LI-004", "QUOTE-004", "Oak frame", 1, 600000, 10},
		{"LI-005", "QUOTE-004", "Delivery", 1, 15000, 20},
	}
	for _, it := range items {
		if _, err := database.ExecContext(ctx,
			"INSERT INTO quote_line_items (id, quote_id, description, quantity, unit_price, sort_order, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			it.id, it.quoteID, it.desc, it.qty, it.price, it.sort, now,
		); err != nil {
			return fmt.Errorf("seed line items: %w", err)
		}
	}

	if _, err := database.ExecContext(ctx,
		"INSERT INTO orders (id, quote_id, client_id, status, delivery_address, total, version, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)",
		"ORDER-001", "QUOTE-004", "CLIENT-002", "confirmed", "3 Quay Street, BS1 4DJ Bristol, UK", int64(615000), now, now,
	); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	staff := "USR-STAFF"
	alice := "CLIENT-001"
	bob := "CLIENT-002"
	messages := []struct {
		id, scopeType, scopeID string
		sender                 *string
		body                   string
		at                     time.Time
	}{
		{"MSG-001", "quote", "QUOTE-001", &alice, "Could the top be oiled rather than lacquered?", now.Add(-3 * time.Hour)},
		{"MSG-002", "quote", "QUOTE-001", &staff, "Yes, oiled oak is no extra cost.", now.Add(-2 * time.Hour)},
		{"MSG-003", "quote", "QUOTE-004", &bob, "Happy with the quote.", now.Add(-90 * time.Minute)},
		{"MSG-004", "order", "ORDER-001", &staff, "Timber is on order.", now.Add(-time.Hour)},
	}
	for _, m := range messages {
		if _, err := database.ExecContext(ctx,
			"INSERT INTO messages (id, scope_type, scope_id, sender_id, body, is_read, created_at) VALUES ($1, $2, $3, $4, $5, 0, $6)",
			m.id, m.scopeType, m.scopeID, m.sender, m.body, m.at,
		); err != nil {
			return fmt.Errorf("seed messages: %w", err)
		}
	}

	return nil
}

func int64Ptr(v int64) *int64 { return &v }

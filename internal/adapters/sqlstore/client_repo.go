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

const clientColumns = "id, name, email, address_line1, address_line2, city, postal_code, country, created_at, updated_at"

// ClientRepository implements secondary.ClientRepository with database/sql.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create persists a new client profile. An empty ID is allocated in the
// same transaction as the insert and written back to client.ID.
func (r *ClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		id := client.ID
		if id == "" {
			var err error
			if id, err = nextID(ctx, tx, "clients", "CLIENT-"); err != nil {
				return err
			}
		}
		a := client.Address
		_, err := tx.ExecContext(ctx,
			"INSERT INTO clients ("+clientColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
			id, client.Name, client.Email, a.Line1, a.Line2, a.City, a.PostalCode, a.Country,
			client.CreatedAt.UTC(), client.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		client.ID = id
		return nil
	})
}

// GetByID retrieves a client by its ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*secondary.ClientRecord, error) {
	record, err := scanClient(r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("client %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return record, nil
}

// List retrieves all clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]*secondary.ClientRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*secondary.ClientRecord
	for rows.Next() {
		record, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, record)
	}
	return clients, rows.Err()
}

// UpdateAddress replaces the profile address.
func (r *ClientRepository) UpdateAddress(ctx context.Context, id string, addr secondary.AddressRecord, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET address_line1 = $1, address_line2 = $2, city = $3, postal_code = $4, country = $5, updated_at = $6 WHERE id = $7",
		addr.Line1, addr.Line2, addr.City, addr.PostalCode, addr.Country, at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update client address: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("client %s", id)
	}
	return nil
}

func scanClient(row rowScanner) (*secondary.ClientRecord, error) {
	var record secondary.ClientRecord
	a := &record.Address
	err := row.Scan(&record.ID, &record.Name, &record.Email, &a.Line1, &a.Line2, &a.City, &a.PostalCode, &a.Country,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

// Ensure ClientRepository implements the interface.
var _ secondary.ClientRepository = (*ClientRepository)(nil)

// Package secondary defines the driven ports of quotedesk: the persistence,
// session and event contracts the application layer depends on.
package secondary

import (
	"context"
	"time"
)

// QuoteRepository defines the secondary port for quote persistence.
// Every status write is a compare-and-swap on Version.
type QuoteRepository interface {
	// Create persists a new quote. Version starts at 1. When quote.ID is
	// empty the next QUOTE-NNN ID is allocated atomically with the insert
	// and written back.
	Create(ctx context.Context, quote *QuoteRecord) error

	// GetByID retrieves a quote by its ID.
	GetByID(ctx context.Context, id string) (*QuoteRecord, error)

	// List retrieves quotes matching the given filters, newest first.
	List(ctx context.Context, filters QuoteFilters) ([]*QuoteRecord, error)

	// UpdateStatus writes status, quoted total and validity together if the
	// stored version still equals ExpectedVersion.
	UpdateStatus(ctx context.Context, update QuoteStatusUpdate) error

	// UpdateStaffNotes replaces the staff notes, version-checked.
	UpdateStaffNotes(ctx context.Context, id string, expectedVersion int64, notes string, at time.Time) error

	// CountByStatus returns stored quote counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// QuoteRecord represents a quote as stored in persistence.
type QuoteRecord struct {
	ID          string
	ClientID    string
	Status      string
	WoodType    string
	PowerSource string
	Dimensions  string
	Quantity    int
	ClientNotes string
	StaffNotes  string
	QuotedTotal *int64
	ValidUntil  *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuoteFilters contains filter options for querying quotes.
type QuoteFilters struct {
	ClientID string
	Status   string
}

// QuoteStatusUpdate is a version-checked quote status write. QuotedTotal and
// ValidUntil are written as given, so nil clears them.
type QuoteStatusUpdate struct {
	ID              string
	ExpectedVersion int64
	Status          string
	QuotedTotal     *int64
	ValidUntil      *time.Time
	UpdatedAt       time.Time
}

// LineItemRepository defines the secondary port for line item persistence.
// Mutations bump the parent quote's version in the same transaction and only
// succeed while the quote is in an editable status at ExpectedQuoteVersion.
type LineItemRepository interface {
	// Add persists a new line item.
	Add(ctx context.Context, item *LineItemRecord, guard QuoteVersionGuard) error

	// Remove deletes a line item.
	Remove(ctx context.Context, itemID string, guard QuoteVersionGuard) error

	// GetByID retrieves a line item by its ID.
	GetByID(ctx context.Context, id string) (*LineItemRecord, error)

	// ListByQuote retrieves the items of a quote ordered by sort order.
	ListByQuote(ctx context.Context, quoteID string) ([]*LineItemRecord, error)
}

// LineItemRecord represents a quote line item as stored in persistence.
type LineItemRecord struct {
	ID          string
	QuoteID     string
	Description string
	Quantity    int64
	UnitPrice   int64
	SortOrder   int
	CreatedAt   time.Time
}

// QuoteVersionGuard pins the parent quote state a line item mutation was
// decided against.
type QuoteVersionGuard struct {
	QuoteID          string
	ExpectedVersion  int64
	EditableStatuses []string
	At               time.Time
}

// OrderRepository defines the secondary port for order persistence.
type OrderRepository interface {
	// CreateFromAcceptedQuote moves the quote to accepted (version-checked)
	// and inserts the order in one transaction. The order ID is assigned
	// inside the transaction and written back to order.ID.
	CreateFromAcceptedQuote(ctx context.Context, accept QuoteStatusUpdate, order *OrderRecord) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id string) (*OrderRecord, error)

	// GetByQuoteID retrieves the order promoted from a quote.
	GetByQuoteID(ctx context.Context, quoteID string) (*OrderRecord, error)

	// List retrieves orders matching the given filters, newest first.
	List(ctx context.Context, filters OrderFilters) ([]*OrderRecord, error)

	// UpdateStatus applies a version-checked status update.
	UpdateStatus(ctx context.Context, update OrderStatusUpdate) error

	// CountByStatus returns order counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)

	// Promotions maps every promoted quote ID to its order ID.
	Promotions(ctx context.Context) (map[string]string, error)
}

// OrderRecord represents an order as stored in persistence.
type OrderRecord struct {
	ID                  string
	QuoteID             string
	ClientID            string
	Status              string
	StatusNote          string
	EstimatedCompletion *time.Time
	TrackingNumber      string
	DeliveryAddress     string
	Total               int64
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderFilters contains filter options for querying orders.
type OrderFilters struct {
	ClientID string
	Status   string
}

// OrderStatusUpdate is a version-checked order write. Nil optional fields
// leave the stored value unchanged.
type OrderStatusUpdate struct {
	ID                  string
	ExpectedVersion     int64
	Status              string
	StatusNote          *string
	EstimatedCompletion *time.Time
	TrackingNumber      *string
	UpdatedAt           time.Time
}

// MessageRepository defines the secondary port for message persistence.
// Messages are append-only; only the read flag changes.
type MessageRepository interface {
	// Create persists a new message.
	Create(ctx context.Context, message *MessageRecord) error

	// GetByID retrieves a message by its ID.
	GetByID(ctx context.Context, id string) (*MessageRecord, error)

	// ListByScope retrieves the messages of one entity in creation order.
	ListByScope(ctx context.Context, scopeType, scopeID string) ([]*MessageRecord, error)

	// ListAll retrieves every message in creation order.
	ListAll(ctx context.Context) ([]*MessageRecord, error)

	// ListForClient retrieves messages on quotes and orders owned by a client.
	ListForClient(ctx context.Context, clientID string) ([]*MessageRecord, error)

	// MarkRead sets is_read on the given IDs. Unknown IDs are ignored and
	// already read messages stay read. Returns the number of IDs matched.
	MarkRead(ctx context.Context, ids []string) (int, error)
}

// MessageRecord represents a message as stored in persistence.
type MessageRecord struct {
	ID        string
	ScopeType string
	ScopeID   string
	SenderID  *string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// ClientRepository defines the secondary port for client profiles.
type ClientRepository interface {
	// Create persists a new client. When client.ID is empty the next
	// CLIENT-NNN ID is allocated atomically with the insert and written back.
	Create(ctx context.Context, client *ClientRecord) error

	// GetByID retrieves a client by its ID.
	GetByID(ctx context.Context, id string) (*ClientRecord, error)

	// List retrieves all clients ordered by name.
	List(ctx context.Context) ([]*ClientRecord, error)

	// UpdateAddress replaces the profile address.
	UpdateAddress(ctx context.Context, id string, addr AddressRecord, at time.Time) error
}

// ClientRecord represents a client profile as stored in persistence.
type ClientRecord struct {
	ID        string
	Name      string
	Email     string
	Address   AddressRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddressRecord is the postal address of a client profile.
type AddressRecord struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

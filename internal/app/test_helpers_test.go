package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/ports/secondary"
)

var (
	staff = access.Principal{ID: "USR-STAFF", Role: access.RoleStaff}
	alice = access.Principal{ID: "CLIENT-001", Role: access.RoleClient}
	bob   = access.Principal{ID: "CLIENT-002", Role: access.RoleClient}
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testClock is a settable clock shared by the services of a fixture.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ============================================================================
// Mock Implementations
// ============================================================================

// mockQuoteRepository implements secondary.QuoteRepository for testing.
// Records are copied in and out so services cannot mutate stored state.
type mockQuoteRepository struct {
	quotes    map[string]*secondary.QuoteRecord
	createErr error
	updateErr error
	// afterGet runs after GetByID, e.g. to simulate a concurrent writer.
	afterGet func(id string)
}

func newMockQuoteRepository() *mockQuoteRepository {
	return &mockQuoteRepository{quotes: make(map[string]*secondary.QuoteRecord)}
}

func (m *mockQuoteRepository) Create(ctx context.Context, quote *secondary.QuoteRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if quote.ID == "" {
		quote.ID = fmt.Sprintf("QUOTE-%03d", len(m.quotes)+1)
	}
	c := *quote
	m.quotes[quote.ID] = &c
	return nil
}

func (m *mockQuoteRepository) GetByID(ctx context.Context, id string) (*secondary.QuoteRecord, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote %s", id)
	}
	c := *q
	if m.afterGet != nil {
		m.afterGet(id)
	}
	return &c, nil
}

func (m *mockQuoteRepository) List(ctx context.Context, filters secondary.QuoteFilters) ([]*secondary.QuoteRecord, error) {
	var result []*secondary.QuoteRecord
	for _, q := range m.quotes {
		if filters.ClientID != "" && q.ClientID != filters.ClientID {
			continue
		}
		if filters.Status != "" && q.Status != filters.Status {
			continue
		}
		c := *q
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockQuoteRepository) UpdateStatus(ctx context.Context, update secondary.QuoteStatusUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	q, err := m.cas(update.ID, update.ExpectedVersion)
	if err != nil {
		return err
	}
	q.Status = update.Status
	q.QuotedTotal = update.QuotedTotal
	q.ValidUntil = update.ValidUntil
	q.UpdatedAt = update.UpdatedAt
	return nil
}

func (m *mockQuoteRepository) UpdateStaffNotes(ctx context.Context, id string, expectedVersion int64, notes string, at time.Time) error {
	q, err := m.cas(id, expectedVersion)
	if err != nil {
		return err
	}
	q.StaffNotes = notes
	q.UpdatedAt = at
	return nil
}

func (m *mockQuoteRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, q := range m.quotes {
		counts[q.Status]++
	}
	return counts, nil
}

// cas bumps the stored version if it matches expected.
func (m *mockQuoteRepository) cas(id string, expected int64) (*secondary.QuoteRecord, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote %s", id)
	}
	if q.Version != expected {
		return nil, apperr.Conflict("quote %s changed concurrently", id)
	}
	q.Version++
	return q, nil
}

// mockLineItemRepository implements secondary.LineItemRepository for testing.
type mockLineItemRepository struct {
	items  map[string]*secondary.LineItemRecord
	quotes *mockQuoteRepository
	addErr error
}

func newMockLineItemRepository(quotes *mockQuoteRepository) *mockLineItemRepository {
	return &mockLineItemRepository{
		items:  make(map[string]*secondary.LineItemRecord),
		quotes: quotes,
	}
}

func (m *mockLineItemRepository) Add(ctx context.Context, item *secondary.LineItemRecord, guard secondary.QuoteVersionGuard) error {
	if m.addErr != nil {
		return m.addErr
	}
	if err := m.bump(guard); err != nil {
		return err
	}
	c := *item
	m.items[item.ID] = &c
	return nil
}

func (m *mockLineItemRepository) Remove(ctx context.Context, itemID string, guard secondary.QuoteVersionGuard) error {
	if _, ok := m.items[itemID]; !ok {
		return apperr.NotFound("line item %s", itemID)
	}
	if err := m.bump(guard); err != nil {
		return err
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockLineItemRepository) GetByID(ctx context.Context, id string) (*secondary.LineItemRecord, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("line item %s", id)
	}
	c := *it
	return &c, nil
}

func (m *mockLineItemRepository) ListByQuote(ctx context.Context, quoteID string) ([]*secondary.LineItemRecord, error) {
	var result []*secondary.LineItemRecord
	for _, it := range m.items {
		if it.QuoteID == quoteID {
			c := *it
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockLineItemRepository) bump(guard secondary.QuoteVersionGuard) error {
	q, ok := m.quotes.quotes[guard.QuoteID]
	if !ok {
		return apperr.NotFound("quote %s", guard.QuoteID)
	}
	editable := false
	for _, s := range guard.EditableStatuses {
		if s == q.Status {
			editable = true
		}
	}
	if !editable || q.Version != guard.ExpectedVersion {
		return apperr.Conflict("quote %s changed concurrently", guard.QuoteID)
	}
	q.Version++
	return nil
}

// mockOrderRepository implements secondary.OrderRepository for testing.
type mockOrderRepository struct {
	orders    map[string]*secondary.OrderRecord
	quotes    *mockQuoteRepository
	createErr error
	updateErr error
}

func newMockOrderRepository(quotes *mockQuoteRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[string]*secondary.OrderRecord),
		quotes: quotes,
	}
}

func (m *mockOrderRepository) CreateFromAcceptedQuote(ctx context.Context, accept secondary.QuoteStatusUpdate, order *secondary.OrderRecord) error {
	// Nothing is applied unless both writes succeed.
	if m.createErr != nil {
		return m.createErr
	}
	for _, o := range m.orders {
		if o.QuoteID == order.QuoteID {
			return apperr.Conflict("quote %s already has order %s", order.QuoteID, o.ID)
		}
	}
	if err := m.quotes.UpdateStatus(ctx, accept); err != nil {
		return err
	}
	order.ID = fmt.Sprintf("ORDER-%03d", len(m.orders)+1)
	c := *order
	m.orders[order.ID] = &c
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %s", id)
	}
	c := *o
	return &c, nil
}

func (m *mockOrderRepository) GetByQuoteID(ctx context.Context, quoteID string) (*secondary.OrderRecord, error) {
	for _, o := range m.orders {
		if o.QuoteID == quoteID {
			c := *o
			return &c, nil
		}
	}
	return nil, apperr.NotFound("order for quote %s", quoteID)
}

func (m *mockOrderRepository) List(ctx context.Context, filters secondary.OrderFilters) ([]*secondary.OrderRecord, error) {
	var result []*secondary.OrderRecord
	for _, o := range m.orders {
		if filters.ClientID != "" && o.ClientID != filters.ClientID {
			continue
		}
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		c := *o
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, update secondary.OrderStatusUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	o, ok := m.orders[update.ID]
	if !ok {
		return apperr.NotFound("order %s", update.ID)
	}
	if o.Version != update.ExpectedVersion {
		return apperr.Conflict("order %s changed concurrently", update.ID)
	}
	o.Version++
	o.Status = update.Status
	if update.StatusNote != nil {
		o.StatusNote = *update.StatusNote
	}
	if update.EstimatedCompletion != nil {
		o.EstimatedCompletion = update.EstimatedCompletion
	}
	if update.TrackingNumber != nil {
		o.TrackingNumber = *update.TrackingNumber
	}
	o.UpdatedAt = update.UpdatedAt
	return nil
}

func (m *mockOrderRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, o := range m.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (m *mockOrderRepository) Promotions(ctx context.Context) (map[string]string, error) {
	p := make(map[string]string)
	for _, o := range m.orders {
		p[o.QuoteID] = o.ID
	}
	return p, nil
}

// mockMessageRepository implements secondary.MessageRepository for testing.
// Messages are kept in insertion order.
type mockMessageRepository struct {
	messages  []*secondary.MessageRecord
	quotes    *mockQuoteRepository
	orders    *mockOrderRepository
	createErr error
}

func newMockMessageRepository(quotes *mockQuoteRepository, orders *mockOrderRepository) *mockMessageRepository {
	return &mockMessageRepository{quotes: quotes, orders: orders}
}

func (m *mockMessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *message
	m.messages = append(m.messages, &c)
	return nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id string) (*secondary.MessageRecord, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			c := *msg
			return &c, nil
		}
	}
	return nil, apperr.NotFound("message %s", id)
}

func (m *mockMessageRepository) ListByScope(ctx context.Context, scopeType, scopeID string) ([]*secondary.MessageRecord, error) {
	return m.filter(func(msg *secondary.MessageRecord) bool {
		return msg.ScopeType == scopeType && msg.ScopeID == scopeID
	}), nil
}

func (m *mockMessageRepository) ListAll(ctx context.Context) ([]*secondary.MessageRecord, error) {
	return m.filter(func(*secondary.MessageRecord) bool { return true }), nil
}

func (m *mockMessageRepository) ListForClient(ctx context.Context, clientID string) ([]*secondary.MessageRecord, error) {
	return m.filter(func(msg *secondary.MessageRecord) bool {
		switch msg.ScopeType {
		case "quote":
			q, ok := m.quotes.quotes[msg.ScopeID]
			return ok && q.ClientID == clientID
		case "order":
			o, ok := m.orders.orders[msg.ScopeID]
			return ok && o.ClientID == clientID
		}
		return false
	}), nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		for _, msg := range m.messages {
			if msg.ID == id {
				msg.IsRead = true
				n++
			}
		}
	}
	return n, nil
}

func (m *mockMessageRepository) filter(keep func(*secondary.MessageRecord) bool) []*secondary.MessageRecord {
	var result []*secondary.MessageRecord
	for _, msg := range m.messages {
		if keep(msg) {
			c := *msg
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

// mockClientRepository implements secondary.ClientRepository for testing.
type mockClientRepository struct {
	clients map[string]*secondary.ClientRecord
	getErr  error
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[string]*secondary.ClientRecord)}
}

func (m *mockClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	if client.ID == "" {
		client.ID = fmt.Sprintf("CLIENT-%03d", len(m.clients)+1)
	}
	c := *client
	m.clients[client.ID] = &c
	return nil
}

func (m *mockClientRepository) GetByID(ctx context.Context, id string) (*secondary.ClientRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.clients[id]
	if !ok {
		return nil, apperr.NotFound("client %s", id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockClientRepository) List(ctx context.Context) ([]*secondary.ClientRecord, error) {
	var result []*secondary.ClientRecord
	for _, c := range m.clients {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockClientRepository) UpdateAddress(ctx context.Context, id string, addr secondary.AddressRecord, at time.Time) error {
	c, ok := m.clients[id]
	if !ok {
		return apperr.NotFound("client %s", id)
	}
	c.Address = addr
	c.UpdatedAt = at
	return nil
}

// recordingPublisher implements secondary.EventPublisher by recording events.
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evts ...events.Event) {
	p.events = append(p.events, evts...)
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// ============================================================================
// Fixture
// ============================================================================

// fixture wires every service over shared in-memory repositories, with the
// real event bus and audit trail behind a recording publisher.
type fixture struct {
	clock     *testClock
	quotes    *mockQuoteRepository
	items     *mockLineItemRepository
	orders    *mockOrderRepository
	messages  *mockMessageRepository
	clients   *mockClientRepository
	recorder  *recordingPublisher
	bus       *EventBus
	ledger    *LedgerServiceImpl
	quoteSvc  *QuoteServiceImpl
	orderSvc  *OrderServiceImpl
	convSvc   *ConversationServiceImpl
	clientSvc *ClientServiceImpl
}

type recorderHandler struct{ rec *recordingPublisher }

func (h recorderHandler) Name() string { return "recorder" }
func (h recorderHandler) Handle(ctx context.Context, evt events.Event) error {
	h.rec.Publish(ctx, evt)
	return nil
}

func newFixture() *fixture {
	f := &fixture{clock: &testClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}}
	f.quotes = newMockQuoteRepository()
	f.items = newMockLineItemRepository(f.quotes)
	f.orders = newMockOrderRepository(f.quotes)
	f.messages = newMockMessageRepository(f.quotes, f.orders)
	f.clients = newMockClientRepository()
	f.recorder = &recordingPublisher{}

	logger := testLogger()
	f.bus = NewEventBus(logger, NewAuditTrail(f.messages), recorderHandler{f.recorder})

	f.ledger = NewLedgerService(f.quotes, f.items, logger)
	f.ledger.now = f.clock.Now
	f.quoteSvc = NewQuoteService(f.quotes, f.items, f.orders, f.clients, f.bus, logger, QuoteOptions{})
	f.quoteSvc.now = f.clock.Now
	f.orderSvc = NewOrderService(f.orders, f.bus, logger, order.Permissive)
	f.orderSvc.now = f.clock.Now
	f.convSvc = NewConversationService(f.messages, f.quotes, f.orders, f.bus, logger)
	f.convSvc.now = f.clock.Now
	f.clientSvc = NewClientService(f.clients)
	f.clientSvc.now = f.clock.Now
	return f
}

// seedQuote stores a quote directly, bypassing the lifecycle.
func (f *fixture) seedQuote(id, clientID, status string) *secondary.QuoteRecord {
	r := &secondary.QuoteRecord{
		ID:        id,
		ClientID:  clientID,
		Status:    status,
		Quantity:  1,
		Version:   1,
		CreatedAt: f.clock.Now(),
		UpdatedAt: f.clock.Now(),
	}
	f.quotes.quotes[id] = r
	return r
}

// seedQuoted stores a quote already sent with the given total.
func (f *fixture) seedQuoted(id, clientID string, total int64, validUntil time.Time) *secondary.QuoteRecord {
	r := f.seedQuote(id, clientID, "quoted")
	r.QuotedTotal = &total
	r.ValidUntil = &validUntil
	return r
}

func (f *fixture) seedItem(id, quoteID string, qty, price int64, sortOrder int) {
	f.items.items[id] = &secondary.LineItemRecord{
		ID: id, QuoteID: quoteID, Description: id, Quantity: qty, UnitPrice: price, SortOrder: sortOrder,
	}
}

func (f *fixture) seedOrder(id, quoteID, clientID, status string) *secondary.OrderRecord {
	r := &secondary.OrderRecord{
		ID: id, QuoteID: quoteID, ClientID: clientID, Status: status, Total: 1000, Version: 1,
		CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now(),
	}
	f.orders.orders[id] = r
	return r
}

func (f *fixture) seedMessage(id, scopeType, scopeID string, sender *string, body string, at time.Time) {
	f.messages.messages = append(f.messages.messages, &secondary.MessageRecord{
		ID: id, ScopeType: scopeType, ScopeID: scopeID, SenderID: sender, Body: body, CreatedAt: at,
	})
}

func strPtr(s string) *string { return &s }

package cli

import (
	"context"
	"errors"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/conversation"
	"github.com/example/quotedesk/internal/ports/primary"
)

var (
	staff = access.Principal{ID: "USR-STAFF", Role: access.RoleStaff}
	alice = access.Principal{ID: "CLIENT-001", Role: access.RoleClient}
)

// mockGuard resolves every context to a fixed principal.
type mockGuard struct {
	principal  access.Principal
	resolveErr error
	issued     []string
}

func (m *mockGuard) ResolvePrincipal(ctx context.Context) (access.Principal, error) {
	if m.resolveErr != nil {
		return access.Principal{}, m.resolveErr
	}
	return m.principal, nil
}

func (m *mockGuard) RequireRole(ctx context.Context, role access.Role) (access.Principal, error) {
	p, err := m.ResolvePrincipal(ctx)
	if err != nil {
		return p, err
	}
	return p, access.RequireRole(p, role).Error()
}

func (m *mockGuard) IssueSession(ctx context.Context, userID string, role access.Role) (string, error) {
	m.issued = append(m.issued, userID+"/"+string(role))
	return "tok-" + userID, nil
}

func unauthenticated() *mockGuard {
	return &mockGuard{resolveErr: apperr.New(apperr.ErrUnauthenticated, "no session")}
}

// mockQuoteService implements primary.QuoteService for testing.
type mockQuoteService struct {
	createFn func(ctx context.Context, p access.Principal, req primary.CreateQuoteRequest) (*primary.CreateQuoteResponse, error)
	listFn   func(ctx context.Context, p access.Principal, filters primary.QuoteFilters) ([]*primary.Quote, error)
	getFn    func(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error)
	acceptFn func(ctx context.Context, p access.Principal, quoteID string) (*primary.AcceptQuoteResponse, error)
	rejectFn func(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error)

	lastPrincipal access.Principal
	lastCreateReq primary.CreateQuoteRequest
}

func (m *mockQuoteService) CreateQuote(ctx context.Context, p access.Principal, req primary.CreateQuoteRequest) (*primary.CreateQuoteResponse, error) {
	m.lastPrincipal = p
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, p, req)
	}
	q := &primary.Quote{ID: "QUOTE-001", ClientID: p.ID, Status: "submitted", WoodType: req.WoodType, Quantity: req.Quantity}
	return &primary.CreateQuoteResponse{QuoteID: q.ID, Quote: q}, nil
}

func (m *mockQuoteService) GetQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	if m.getFn != nil {
		return m.getFn(ctx, p, quoteID)
	}
	return &primary.Quote{ID: quoteID, ClientID: "CLIENT-001", Status: "reviewing", Quantity: 1, Version: 3}, nil
}

func (m *mockQuoteService) ListQuotes(ctx context.Context, p access.Principal, filters primary.QuoteFilters) ([]*primary.Quote, error) {
	m.lastPrincipal = p
	if m.listFn != nil {
		return m.listFn(ctx, p, filters)
	}
	return nil, nil
}

func (m *mockQuoteService) StartReview(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	return &primary.Quote{ID: quoteID, Status: "reviewing"}, nil
}

func (m *mockQuoteService) SendQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *mockQuoteService) AcceptQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.AcceptQuoteResponse, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, p, quoteID)
	}
	return &primary.AcceptQuoteResponse{
		Quote: &primary.Quote{ID: quoteID, Status: "accepted"},
		Order: &primary.Order{ID: "ORDER-001", QuoteID: quoteID, Total: 435000},
	}, nil
}

func (m *mockQuoteService) RejectQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	if m.rejectFn != nil {
		return m.rejectFn(ctx, p, quoteID)
	}
	return &primary.Quote{ID: quoteID, Status: "rejected"}, nil
}

func (m *mockQuoteService) ReopenQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Quote, error) {
	return &primary.Quote{ID: quoteID, Status: "submitted"}, nil
}

func (m *mockQuoteService) UpdateStaffNotes(ctx context.Context, p access.Principal, quoteID, notes string) (*primary.Quote, error) {
	return &primary.Quote{ID: quoteID, StaffNotes: notes}, nil
}

func (m *mockQuoteService) QuoteStats(ctx context.Context, p access.Principal) (map[string]int, error) {
	return map[string]int{"submitted": 2, "quoted": 1}, nil
}

// mockLedgerService implements primary.LedgerService for testing.
type mockLedgerService struct {
	items   []*primary.LineItem
	addErr  error
	lastAdd primary.AddLineItemRequest
}

func (m *mockLedgerService) AddLineItem(ctx context.Context, p access.Principal, req primary.AddLineItemRequest) (*primary.LineItem, error) {
	m.lastAdd = req
	if m.addErr != nil {
		return nil, m.addErr
	}
	item := &primary.LineItem{ID: "LI-001", QuoteID: req.QuoteID, Description: req.Description, Quantity: req.Quantity, UnitPrice: req.UnitPrice, LineTotal: req.Quantity * req.UnitPrice}
	m.items = append(m.items, item)
	return item, nil
}

func (m *mockLedgerService) RemoveLineItem(ctx context.Context, p access.Principal, lineItemID string) error {
	return nil
}

func (m *mockLedgerService) ComputeTotal(ctx context.Context, p access.Principal, quoteID string) (int64, error) {
	var total int64
	for _, it := range m.items {
		total += it.LineTotal
	}
	return total, nil
}

func (m *mockLedgerService) ListLineItems(ctx context.Context, p access.Principal, quoteID string) ([]*primary.LineItem, error) {
	return m.items, nil
}

// mockOrderService implements primary.OrderService for testing.
type mockOrderService struct {
	order         *primary.Order
	updateErr     error
	lastUpdateReq primary.UpdateOrderStatusRequest
}

func (m *mockOrderService) GetOrder(ctx context.Context, p access.Principal, orderID string) (*primary.Order, error) {
	if m.order == nil {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return m.order, nil
}

func (m *mockOrderService) GetOrderByQuote(ctx context.Context, p access.Principal, quoteID string) (*primary.Order, error) {
	return m.GetOrder(ctx, p, "")
}

func (m *mockOrderService) ListOrders(ctx context.Context, p access.Principal, filters primary.OrderFilters) ([]*primary.Order, error) {
	if m.order == nil {
		return nil, nil
	}
	return []*primary.Order{m.order}, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, p access.Principal, req primary.UpdateOrderStatusRequest) (*primary.Order, error) {
	m.lastUpdateReq = req
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &primary.Order{ID: req.OrderID, Status: req.Status}, nil
}

func (m *mockOrderService) OrderStats(ctx context.Context, p access.Principal) (map[string]int, error) {
	return map[string]int{"building": 1}, nil
}

// mockConversationService implements primary.ConversationService for testing.
type mockConversationService struct {
	thread        []*primary.Message
	inbox         []*primary.Conversation
	own           []*primary.Conversation
	inboxCalled   bool
	ownCalled     bool
	lastPost      primary.PostMessageRequest
	lastMarkedIDs []string
}

func (m *mockConversationService) PostMessage(ctx context.Context, p access.Principal, req primary.PostMessageRequest) (*primary.Message, error) {
	m.lastPost = req
	sender := p.ID
	return &primary.Message{ID: "MSG-001", Scope: req.Scope, SenderID: &sender, Body: req.Body}, nil
}

func (m *mockConversationService) GetThread(ctx context.Context, p access.Principal, scope conversation.Scope) ([]*primary.Message, error) {
	return m.thread, nil
}

func (m *mockConversationService) GetInbox(ctx context.Context, p access.Principal) ([]*primary.Conversation, error) {
	m.inboxCalled = true
	return m.inbox, nil
}

func (m *mockConversationService) ListConversations(ctx context.Context, p access.Principal) ([]*primary.Conversation, error) {
	m.ownCalled = true
	return m.own, nil
}

func (m *mockConversationService) MarkRead(ctx context.Context, p access.Principal, messageIDs []string) (int, error) {
	m.lastMarkedIDs = messageIDs
	return len(messageIDs), nil
}

// mockClientService implements primary.ClientService for testing.
type mockClientService struct {
	client   *primary.Client
	lastAddr primary.Address
}

func (m *mockClientService) CreateClient(ctx context.Context, p access.Principal, req primary.CreateClientRequest) (*primary.Client, error) {
	return &primary.Client{ID: "CLIENT-003", Name: req.Name, Email: req.Email, Address: req.Address}, nil
}

func (m *mockClientService) GetClient(ctx context.Context, p access.Principal, clientID string) (*primary.Client, error) {
	if m.client == nil {
		return nil, apperr.NotFound("client %s not found", clientID)
	}
	return m.client, nil
}

func (m *mockClientService) ListClients(ctx context.Context, p access.Principal) ([]*primary.Client, error) {
	if m.client == nil {
		return nil, nil
	}
	return []*primary.Client{m.client}, nil
}

func (m *mockClientService) UpdateAddress(ctx context.Context, p access.Principal, clientID string, addr primary.Address) (*primary.Client, error) {
	m.lastAddr = addr
	return &primary.Client{ID: clientID, Address: addr}, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/conversation"
	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// ConversationServiceImpl implements the ConversationService interface.
type ConversationServiceImpl struct {
	messageRepo secondary.MessageRepository
	quoteRepo   secondary.QuoteRepository
	orderRepo   secondary.OrderRepository
	publisher   secondary.EventPublisher
	logger      logrus.FieldLogger
	now         func() time.Time
}

// NewConversationService creates a new ConversationService with injected dependencies.
func NewConversationService(
	messageRepo secondary.MessageRepository,
	quoteRepo secondary.QuoteRepository,
	orderRepo secondary.OrderRepository,
	publisher secondary.EventPublisher,
	logger logrus.FieldLogger,
) *ConversationServiceImpl {
	return &ConversationServiceImpl{
		messageRepo: messageRepo,
		quoteRepo:   quoteRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// PostMessage appends a message from the principal to a quote or order.
func (s *ConversationServiceImpl) PostMessage(ctx context.Context, p access.Principal, req primary.PostMessageRequest) (*primary.Message, error) {
	if req.Scope.IsZero() {
		return nil, apperr.InvalidState("message scope is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperr.InvalidState("message body is required")
	}
	if _, err := s.authorize(ctx, p, req.Scope); err != nil {
		return nil, err
	}

	sender := p.ID
	record := &secondary.MessageRecord{
		ID:        uuid.NewString(),
		ScopeType: string(req.Scope.Kind()),
		ScopeID:   req.Scope.ID(),
		SenderID:  &sender,
		Body:      req.Body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.publisher.Publish(ctx, events.MessageAppended{
		MessageID: record.ID,
		ScopeType: record.ScopeType,
		ScopeID:   record.ScopeID,
		SenderID:  record.SenderID,
		At:        record.CreatedAt,
	})

	return recordToMessage(record, req.Scope), nil
}

// GetThread returns a quote's messages, or an order's messages merged with
// those of its originating quote, in creation order.
func (s *ConversationServiceImpl) GetThread(ctx context.Context, p access.Principal, scope conversation.Scope) ([]*primary.Message, error) {
	if scope.IsZero() {
		return nil, apperr.InvalidState("message scope is required")
	}
	quoteID, err := s.authorize(ctx, p, scope)
	if err != nil {
		return nil, err
	}

	own, err := s.listScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	lists := [][]conversation.Message{own}
	if scope.IsOrder() {
		origin, err := s.listScope(ctx, conversation.QuoteScope(quoteID))
		if err != nil {
			return nil, err
		}
		lists = append(lists, origin)
	}

	thread := conversation.MergeThread(lists...)
	result := make([]*primary.Message, len(thread))
	for i, m := range thread {
		result[i] = toPrimaryMessage(m)
	}
	return result, nil
}

// GetInbox returns every conversation, deduplicated across promotion.
func (s *ConversationServiceImpl) GetInbox(ctx context.Context, p access.Principal) ([]*primary.Conversation, error) {
	if err := access.RequireRole(p, access.RoleStaff).Error(); err != nil {
		return nil, err
	}
	records, err := s.messageRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return s.inbox(ctx, p, records)
}

// ListConversations returns the calling client's conversations.
func (s *ConversationServiceImpl) ListConversations(ctx context.Context, p access.Principal) ([]*primary.Conversation, error) {
	if err := access.RequireRole(p, access.RoleClient).Error(); err != nil {
		return nil, err
	}
	records, err := s.messageRepo.ListForClient(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return s.inbox(ctx, p, records)
}

// MarkRead flags messages as read for the principal. Unknown IDs and the
// principal's own messages are skipped, so repeating a call is harmless.
func (s *ConversationServiceImpl) MarkRead(ctx context.Context, p access.Principal, messageIDs []string) (int, error) {
	var msgs []conversation.Message
	checked := make(map[conversation.Scope]bool)

	for _, id := range messageIDs {
		record, err := s.messageRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return 0, fmt.Errorf("failed to get message: %w", err)
		}
		m, err := recordToConversationMessage(record)
		if err != nil {
			return 0, err
		}

		if !checked[m.Scope] {
			if _, err := s.authorize(ctx, p, m.Scope); err != nil {
				return 0, err
			}
			checked[m.Scope] = true
		}
		msgs = append(msgs, m)
	}

	ids := conversation.ReadableBy(msgs, p.ID)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.messageRepo.MarkRead(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return n, nil
}

// Helper methods

// authorize checks the principal may use scope and returns the quote ID the
// scope belongs to (the originating quote for orders).
func (s *ConversationServiceImpl) authorize(ctx context.Context, p access.Principal, scope conversation.Scope) (string, error) {
	var ownerID, quoteID string
	switch scope.Kind() {
	case conversation.KindQuote:
		q, err := s.quoteRepo.GetByID(ctx, scope.ID())
		if err != nil {
			return "", err
		}
		ownerID, quoteID = q.ClientID, q.ID
	case conversation.KindOrder:
		o, err := s.orderRepo.GetByID(ctx, scope.ID())
		if err != nil {
			return "", err
		}
		ownerID, quoteID = o.ClientID, o.QuoteID
	default:
		return "", apperr.InvalidState("unknown message scope %s", scope)
	}

	if err := access.CanView(p, ownerID).Error(); err != nil {
		return "", err
	}
	return quoteID, nil
}

func (s *ConversationServiceImpl) listScope(ctx context.Context, scope conversation.Scope) ([]conversation.Message, error) {
	records, err := s.messageRepo.ListByScope(ctx, string(scope.Kind()), scope.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for %s: %w", scope, err)
	}
	return toConversationMessages(records)
}

func (s *ConversationServiceImpl) inbox(ctx context.Context, p access.Principal, records []*secondary.MessageRecord) ([]*primary.Conversation, error) {
	msgs, err := toConversationMessages(records)
	if err != nil {
		return nil, err
	}
	promotions, err := s.orderRepo.Promotions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotions: %w", err)
	}

	convs := conversation.BuildInbox(msgs, conversation.Promotions(promotions), p.ID)
	result := make([]*primary.Conversation, len(convs))
	for i, c := range convs {
		result[i] = &primary.Conversation{
			Scope:         c.Scope,
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   c.UnreadCount,
			MessageCount:  c.MessageCount,
		}
	}
	return result, nil
}

func toConversationMessages(records []*secondary.MessageRecord) ([]conversation.Message, error) {
	msgs := make([]conversation.Message, len(records))
	for i, r := range records {
		m, err := recordToConversationMessage(r)
		if err != nil {
			return nil, err
		}
		msgs[i] = m
	}
	return msgs, nil
}

func recordToConversationMessage(r *secondary.MessageRecord) (conversation.Message, error) {
	scope, err := conversation.ParseScope(r.ScopeType, r.ScopeID)
	if err != nil {
		return conversation.Message{}, fmt.Errorf("message %s: %w", r.ID, err)
	}
	return conversation.Message{
		ID:        r.ID,
		Scope:     scope,
		SenderID:  r.SenderID,
		Body:      r.Body,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}, nil
}

func toPrimaryMessage(m conversation.Message) *primary.Message {
	return &primary.Message{
		ID:        m.ID,
		Scope:     m.Scope,
		SenderID:  m.SenderID,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func recordToMessage(r *secondary.MessageRecord, scope conversation.Scope) *primary.Message {
	return &primary.Message{
		ID:        r.ID,
		Scope:     scope,
		SenderID:  r.SenderID,
		Body:      r.Body,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure ConversationServiceImpl implements the interface.
var _ primary.ConversationService = (*ConversationServiceImpl)(nil)

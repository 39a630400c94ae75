package primary

import (
	"context"
	"time"

	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/core/conversation"
)

// ConversationService defines the primary port for messaging.
type ConversationService interface {
	// PostMessage appends a message to a quote or order.
	PostMessage(ctx context.Context, p access.Principal, req PostMessageRequest) (*Message, error)

	// GetThread returns the messages of a quote, or of an order merged with
	// its originating quote, in creation order.
	GetThread(ctx context.Context, p access.Principal, scope conversation.Scope) ([]*Message, error)

	// GetInbox returns every conversation for staff, newest first.
	GetInbox(ctx context.Context, p access.Principal) ([]*Conversation, error)

	// ListConversations returns the calling client's conversations.
	ListConversations(ctx context.Context, p access.Principal) ([]*Conversation, error)

	// MarkRead flags messages as read. Idempotent; the viewer's own
	// messages are skipped. Returns the number of messages flagged.
	MarkRead(ctx context.Context, p access.Principal, messageIDs []string) (int, error)
}

// PostMessageRequest contains parameters for posting a message.
type PostMessageRequest struct {
	Scope conversation.Scope
	Body  string
}

// Message represents a message at the port boundary. SenderID is nil for
// system messages.
type Message struct {
	ID        string
	Scope     conversation.Scope
	SenderID  *string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// Conversation is a derived per-entity message summary.
type Conversation struct {
	Scope         conversation.Scope
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int
	MessageCount  int
}

package secondary

import (
	"context"
	"time"

	"github.com/example/quotedesk/internal/core/events"
)

// SessionStore resolves session tokens to principals. Implementations return
// an apperr.ErrUnauthenticated error for unknown, expired or malformed tokens.
type SessionStore interface {
	// Resolve looks up the session behind token.
	Resolve(ctx context.Context, token string) (*SessionRecord, error)

	// Issue creates a session and returns its token. Used by developer
	// tooling; production sessions are issued by the identity provider.
	Issue(ctx context.Context, session SessionRecord) (string, error)
}

// SessionRecord is the identity carried by a session.
type SessionRecord struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventPublisher publishes lifecycle events after the change they describe
// has committed. Publish never fails the caller's operation.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.Event)
}

// EventHandler consumes published lifecycle events.
type EventHandler interface {
	// Name identifies the handler in logs.
	Name() string

	// Handle processes one event. Errors are logged by the publisher.
	Handle(ctx context.Context, evt events.Event) error
}

// Package session contains the SessionStore implementations: an in-process
// map for single-process use and tests, Redis for shared opaque sessions,
// and signed JWTs that need no server-side state.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]secondary.SessionRecord
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]secondary.SessionRecord),
		now:      time.Now,
	}
}

// Issue stores the session under a random token.
func (s *MemoryStore) Issue(ctx context.Context, rec secondary.SessionRecord) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = rec
	return token, nil
}

// Resolve returns the live session for token. Expired sessions are dropped.
func (s *MemoryStore) Resolve(ctx context.Context, token string) (*secondary.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[token]
	if !ok {
		return nil, apperr.New(apperr.ErrUnauthenticated, "unknown session")
	}
	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		delete(s.sessions, token)
		return nil, apperr.New(apperr.ErrUnauthenticated, "session expired")
	}
	return &rec, nil
}

// Ensure MemoryStore implements the interface.
var _ secondary.SessionStore = (*MemoryStore)(nil)

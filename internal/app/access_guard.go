package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/ctxutil"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// AccessGuardImpl implements the AccessGuard interface on a SessionStore.
type AccessGuardImpl struct {
	sessions   secondary.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAccessGuard creates a new AccessGuard with injected dependencies.
func NewAccessGuard(sessions secondary.SessionStore, sessionTTL time.Duration) *AccessGuardImpl {
	return &AccessGuardImpl{
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// ResolvePrincipal resolves the session token carried by ctx.
func (g *AccessGuardImpl) ResolvePrincipal(ctx context.Context) (access.Principal, error) {
	token := ctxutil.SessionTokenFromContext(ctx)
	if token == "" {
		return access.Principal{}, apperr.New(apperr.ErrUnauthenticated, "no session")
	}

	session, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return access.Principal{}, err
		}
		return access.Principal{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	role, err := access.ParseRole(session.Role)
	if err != nil || session.UserID == "" {
		return access.Principal{}, apperr.New(apperr.ErrUnauthenticated, "session carries no valid identity")
	}

	return access.Principal{ID: session.UserID, Role: role}, nil
}

// RequireRole resolves the principal and checks its role.
func (g *AccessGuardImpl) RequireRole(ctx context.Context, role access.Role) (access.Principal, error) {
	p, err := g.ResolvePrincipal(ctx)
	if err != nil {
		return access.Principal{}, err
	}
	if err := access.RequireRole(p, role).Error(); err != nil {
		return access.Principal{}, err
	}
	return p, nil
}

// IssueSession mints a session for userID with the given role.
func (g *AccessGuardImpl) IssueSession(ctx context.Context, userID string, role access.Role) (string, error) {
	if userID == "" {
		return "", apperr.InvalidState("user id is required")
	}
	if !role.Valid() {
		return "", apperr.InvalidState("unknown role %q", role)
	}

	token, err := g.sessions.Issue(ctx, secondary.SessionRecord{
		UserID:    userID,
		Role:      string(role),
		ExpiresAt: g.now().Add(g.sessionTTL).UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue session: %w", err)
	}
	return token, nil
}

// Ensure AccessGuardImpl implements the interface.
var _ primary.AccessGuard = (*AccessGuardImpl)(nil)

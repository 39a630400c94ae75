package primary

import (
	"context"

	"github.com/example/quotedesk/internal/core/access"
)

// AccessGuard defines the primary port for principal resolution.
type AccessGuard interface {
	// ResolvePrincipal returns the principal of the session carried by ctx,
	// or an apperr.ErrUnauthenticated error.
	ResolvePrincipal(ctx context.Context) (access.Principal, error)

	// RequireRole resolves the principal and additionally checks its role.
	RequireRole(ctx context.Context, role access.Role) (access.Principal, error)

	// IssueSession mints a session token for a user (developer tooling).
	IssueSession(ctx context.Context, userID string, role access.Role) (string, error)
}

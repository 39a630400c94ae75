package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/quotedesk/internal/core/access"
	"github.com/example/quotedesk/internal/ports/primary"
)

// SessionAdapter issues developer sessions.
type SessionAdapter struct {
	guard primary.AccessGuard
	out   io.Writer
}

// NewSessionAdapter creates a new SessionAdapter.
func NewSessionAdapter(guard primary.AccessGuard, out io.Writer) *SessionAdapter {
	return &SessionAdapter{guard: guard, out: out}
}

// Issue prints a token for userID, in a form that can be eval'd by a shell
// when exportLine is set.
func (a *SessionAdapter) Issue(ctx context.Context, userID, role string, exportLine bool) error {
	r, err := access.ParseRole(role)
	if err != nil {
		return err
	}
	token, err := a.guard.IssueSession(ctx, userID, r)
	if err != nil {
		return err
	}
	if exportLine {
		fmt.Fprintf(a.out, "export QUOTEDESK_SESSION=%s\n", token)
		return nil
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// WhoAmI prints the principal behind the current session.
func (a *SessionAdapter) WhoAmI(ctx context.Context) error {
	p, err := a.guard.ResolvePrincipal(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", p.ID, p.Role)
	return nil
}

package quote

import (
	"strings"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
)

// CreateQuoteContext provides context for quote intake guards.
type CreateQuoteContext struct {
	Principal access.Principal
	Quantity  int
}

// TransitionContext provides context for state machine guards.
type TransitionContext struct {
	Principal     access.Principal
	QuoteID       string
	OwnerID       string
	Status        Status // effective status, after lazy expiry
	LineItemCount int
}

// StaffNotesContext provides context for staff note edits.
type StaffNotesContext struct {
	Principal access.Principal
	QuoteID   string
}

// CanCreateQuote evaluates whether a quote request can be submitted.
// Rules:
// - Principal must be a client
// - Quantity must be at least 1
func CanCreateQuote(ctx CreateQuoteContext) access.GuardResult {
	if r := access.RequireRole(ctx.Principal, access.RoleClient); !r.Allowed {
		return r
	}
	if ctx.Quantity < 1 {
		return access.Deny(apperr.ErrInvalidState, "quantity must be at least 1, got %d", ctx.Quantity)
	}
	return access.Allow()
}

// CanTransition evaluates whether action may fire.
// Rules:
// - The principal is checked before the state: staff edges need staff,
//   owner edges need the owning client
// - The current status must be a source of the edge
// - Sending requires at least one line item
func CanTransition(action Action, ctx TransitionContext) access.GuardResult {
	e, ok := edges[action]
	if !ok {
		return access.Deny(apperr.ErrInvalidTransition, "unknown quote action %q", action)
	}

	switch e.actor {
	case actorStaff:
		if r := access.RequireRole(ctx.Principal, access.RoleStaff); !r.Allowed {
			return r
		}
	case actorOwner:
		if r := access.RequireOwner(ctx.Principal, ctx.OwnerID); !r.Allowed {
			return r
		}
	}

	if !statusIn(ctx.Status, e.from) {
		return access.Deny(apperr.ErrInvalidTransition,
			"cannot %s quote %s: status is %s, expected %s", action, ctx.QuoteID, ctx.Status, joinStatuses(e.from))
	}

	if action == ActionSend && ctx.LineItemCount < 1 {
		return access.Deny(apperr.ErrInvalidState, "cannot send quote %s without line items", ctx.QuoteID)
	}

	return access.Allow()
}

// CanUpdateStaffNotes evaluates whether staff notes can be edited.
func CanUpdateStaffNotes(ctx StaffNotesContext) access.GuardResult {
	return access.RequireRole(ctx.Principal, access.RoleStaff)
}

func statusIn(s Status, set []Status) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

func joinStatuses(set []Status) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}

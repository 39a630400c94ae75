// Package access contains the pure authorization rules shared by every
// quotedesk component. Guards are pure functions that evaluate
// preconditions without side effects.
package access

import (
	"fmt"

	"github.com/example/quotedesk/internal/apperr"
)

// Role is the coarse capability of a principal.
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleStaff
}

// ParseRole converts a stored role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal is the authenticated actor of a request. It is resolved once per
// request and passed explicitly into every service call.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsStaff() bool  { return p.Role == RoleStaff }
func (p Principal) IsClient() bool { return p.Role == RoleClient }

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error
	Reason  string
}

// Allow is the passing guard result.
func Allow() GuardResult {
	return GuardResult{Allowed: true}
}

// Deny builds a failing guard result of the given apperr kind.
func Deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	kind := r.Kind
	if kind == nil {
		kind = apperr.ErrInvalidState
	}
	return &apperr.Error{Kind: kind, Message: r.Reason}
}

// RequireRole fails with Unauthorized when the principal's role differs.
func RequireRole(p Principal, role Role) GuardResult {
	if p.Role != role {
		return Deny(apperr.ErrUnauthorized, "%s role required, principal %s is %s", role, p.ID, p.Role)
	}
	return Allow()
}

// CanView allows staff, or the client owning the resource.
func CanView(p Principal, ownerID string) GuardResult {
	if p.IsStaff() {
		return Allow()
	}
	if p.IsClient() && p.ID == ownerID {
		return Allow()
	}
	return Deny(apperr.ErrForbidden, "principal %s does not own this resource", p.ID)
}

// RequireOwner allows only the owning client. Staff fail the role check;
// other clients are the wrong principal.
func RequireOwner(p Principal, ownerID string) GuardResult {
	if r := RequireRole(p, RoleClient); !r.Allowed {
		return r
	}
	if p.ID != ownerID {
		return Deny(apperr.ErrForbidden, "principal %s does not own this resource", p.ID)
	}
	return Allow()
}

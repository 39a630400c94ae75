// Package order contains the pure business logic for the order lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package order

import (
	"fmt"
	"strings"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
)

// Status represents the fabrication and delivery progress of an order.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusMaterials Status = "materials"
	StatusBuilding  Status = "building"
	StatusFinishing Status = "finishing"
	StatusReady     Status = "ready"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
)

// Sequence is the canonical happy path, in order.
var Sequence = []Status{
	StatusConfirmed, StatusMaterials, StatusBuilding, StatusFinishing,
	StatusReady, StatusShipped, StatusDelivered, StatusCompleted,
}

// InitialStatus returns the status of an order created from an accepted quote.
func InitialStatus() Status {
	return StatusConfirmed
}

// ParseStatus converts a stored or user-supplied status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Sequence {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperr.InvalidState("unknown order status %q", s)
}

// Rank returns the position of s in Sequence, or -1.
func (s Status) Rank() int {
	for i, st := range Sequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Label is the display form used in audit messages.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Policy decides which status changes staff may make.
type Policy int

const (
	// Permissive allows any status to be set from any other, so staff can
	// correct mistakes.
	Permissive Policy = iota
	// ForwardOnly allows only moves later in Sequence.
	ForwardOnly
)

func (p Policy) String() string {
	if p == ForwardOnly {
		return "forward_only"
	}
	return "permissive"
}

// UpdateStatusContext provides context for order status guards.
type UpdateStatusContext struct {
	Principal access.Principal
	OrderID   string
	Current   Status
	Next      Status
	Policy    Policy
}

// CanUpdateStatus evaluates whether a status update may be applied.
// Rules:
// - Principal must be staff
// - Under ForwardOnly the new status must rank after the current one
//   (re-setting the same status is always allowed)
func CanUpdateStatus(ctx UpdateStatusContext) access.GuardResult {
	if r := access.RequireRole(ctx.Principal, access.RoleStaff); !r.Allowed {
		return r
	}
	if ctx.Next.Rank() < 0 {
		return access.Deny(apperr.ErrInvalidState, "unknown order status %q", ctx.Next)
	}
	if ctx.Policy == ForwardOnly && ctx.Next != ctx.Current && ctx.Next.Rank() < ctx.Current.Rank() {
		return access.Deny(apperr.ErrInvalidTransition,
			"order %s cannot move back from %s to %s", ctx.OrderID, ctx.Current, ctx.Next)
	}
	return access.Allow()
}

// StatusChangeNote renders the audit line for a status change.
func StatusChangeNote(from, to Status) string {
	return fmt.Sprintf("Order status changed from %s to %s", from.Label(), to.Label())
}

// Address is a client's postal address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
}

// SnapshotAddress renders the point-in-time delivery address copied onto a
// new order. Empty parts are skipped.
func SnapshotAddress(a Address) string {
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(a.PostalCode, a.City), " "))
	return strings.Join(nonEmpty(a.Line1, a.Line2, cityLine, a.Country), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

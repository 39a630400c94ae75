// Package quote contains the pure business logic for the quote lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package quote

import (
	"fmt"
	"time"
)

// Status represents the possible states of a quote.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewing Status = "reviewing"
	StatusQuoted    Status = "quoted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

// AllStatuses lists every quote status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft, StatusSubmitted, StatusReviewing, StatusQuoted,
	StatusAccepted, StatusRejected, StatusExpired,
}

// DefaultValidityDays is how long a sent quote stays acceptable.
const DefaultValidityDays = 30

// ParseStatus converts a stored status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown quote status %q", s)
}

// InitialStatus returns the status of a freshly submitted quote.
func InitialStatus() Status {
	return StatusSubmitted
}

// Action is a named edge of the quote state machine.
type Action string

const (
	ActionReview Action = "review"
	ActionSend   Action = "send"
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionReopen Action = "reopen"
)

// actor describes who may fire an edge.
type actor int

const (
	actorStaff actor = iota
	actorOwner
)

type edge struct {
	from  []Status
	to    Status
	actor actor
}

// edges is the complete transition table. Expiry is not an action: it is
// derived on read by EffectiveStatus.
var edges = map[Action]edge{
	ActionReview: {from: []Status{StatusSubmitted}, to: StatusReviewing, actor: actorStaff},
	ActionSend:   {from: []Status{StatusReviewing}, to: StatusQuoted, actor: actorStaff},
	ActionAccept: {from: []Status{StatusQuoted}, to: StatusAccepted, actor: actorOwner},
	ActionReject: {from: []Status{StatusQuoted}, to: StatusRejected, actor: actorOwner},
	ActionReopen: {from: []Status{StatusRejected, StatusExpired}, to: StatusSubmitted, actor: actorOwner},
}

// Target returns the status an action leads to.
func Target(a Action) (Status, bool) {
	e, ok := edges[a]
	return e.to, ok
}

// EffectiveStatus applies lazy expiry: a quoted quote whose validity window
// has passed reads as expired.
func EffectiveStatus(status Status, validUntil *time.Time, now time.Time) Status {
	if status == StatusQuoted && validUntil != nil && validUntil.Before(now) {
		return StatusExpired
	}
	return status
}

// IsTerminal reports whether no further quote-side transition exists.
func IsTerminal(s Status) bool {
	return s == StatusAccepted
}

// SendResult is the snapshot written by the send transition.
type SendResult struct {
	NewStatus   Status
	QuotedTotal int64
	ValidUntil  time.Time
}

// ApplySend snapshots the ledger total and starts the validity window.
// The caller passes the current time to enable testing.
func ApplySend(total int64, now time.Time, validityDays int) SendResult {
	if validityDays <= 0 {
		validityDays = DefaultValidityDays
	}
	return SendResult{
		NewStatus:   StatusQuoted,
		QuotedTotal: total,
		ValidUntil:  now.AddDate(0, 0, validityDays),
	}
}

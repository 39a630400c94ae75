package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
)

var (
	staff = access.Principal{ID: "USR-STAFF", Role: access.RoleStaff}
	owner = access.Principal{ID: "CLIENT-001", Role: access.RoleClient}
	other = access.Principal{ID: "CLIENT-002", Role: access.RoleClient}
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		principal access.Principal
		status    Status
		items     int
		wantKind  error
	}{
		// review
		{"staff reviews submitted", ActionReview, staff, StatusSubmitted, 0, nil},
		{"client cannot review", ActionReview, owner, StatusSubmitted, 0, apperr.ErrUnauthorized},
		{"review from quoted", ActionReview, staff, StatusQuoted, 0, apperr.ErrInvalidTransition},

		// send
		{"staff sends reviewing", ActionSend, staff, StatusReviewing, 2, nil},
		{"send without items", ActionSend, staff, StatusReviewing, 0, apperr.ErrInvalidState},
		{"send from submitted", ActionSend, staff, StatusSubmitted, 2, apperr.ErrInvalidTransition},
		{"client cannot send", ActionSend, owner, StatusReviewing, 2, apperr.ErrUnauthorized},

		// accept / reject
		{"owner accepts", ActionAccept, owner, StatusQuoted, 1, nil},
		{"owner rejects", ActionReject, owner, StatusQuoted, 1, nil},
		{"other client accepts", ActionAccept, other, StatusQuoted, 1, apperr.ErrForbidden},
		{"other client rejects", ActionReject, other, StatusQuoted, 1, apperr.ErrForbidden},
		{"staff cannot accept", ActionAccept, staff, StatusQuoted, 1, apperr.ErrUnauthorized},
		{"accept submitted", ActionAccept, owner, StatusSubmitted, 0, apperr.ErrInvalidTransition},
		{"accept expired", ActionAccept, owner, StatusExpired, 1, apperr.ErrInvalidTransition},
		{"accept twice", ActionAccept, owner, StatusAccepted, 1, apperr.ErrInvalidTransition},

		// reopen
		{"reopen rejected", ActionReopen, owner, StatusRejected, 1, nil},
		{"reopen expired", ActionReopen, owner, StatusExpired, 1, nil},
		{"reopen quoted", ActionReopen, owner, StatusQuoted, 1, apperr.ErrInvalidTransition},
		{"reopen accepted", ActionReopen, owner, StatusAccepted, 1, apperr.ErrInvalidTransition},
		{"other reopens", ActionReopen, other, StatusRejected, 1, apperr.ErrForbidden},

		{"unknown action", Action("expire"), staff, StatusQuoted, 1, apperr.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.action, TransitionContext{
				Principal:     tt.principal,
				QuoteID:       "QUOTE-001",
				OwnerID:       owner.ID,
				Status:        tt.status,
				LineItemCount: tt.items,
			}).Error()

			if tt.wantKind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("got %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestCanCreateQuote(t *testing.T) {
	if err := CanCreateQuote(CreateQuoteContext{Principal: owner, Quantity: 1}).Error(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CanCreateQuote(CreateQuoteContext{Principal: staff, Quantity: 1}).Error(); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if err := CanCreateQuote(CreateQuoteContext{Principal: owner, Quantity: 0}).Error(); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected invalid state, got %v", err)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name       string
		status     Status
		validUntil *time.Time
		want       Status
	}{
		{"quoted within window", StatusQuoted, &future, StatusQuoted},
		{"quoted past window", StatusQuoted, &past, StatusExpired},
		{"quoted exactly at deadline", StatusQuoted, &now, StatusQuoted},
		{"quoted without window", StatusQuoted, nil, StatusQuoted},
		{"rejected past window stays rejected", StatusRejected, &past, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.status, tt.validUntil, now); got != tt.want {
				t.Errorf("EffectiveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplySend(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	result := ApplySend(435000, now, 0)
	if result.NewStatus != StatusQuoted {
		t.Errorf("status = %s", result.NewStatus)
	}
	if result.QuotedTotal != 435000 {
		t.Errorf("total = %d", result.QuotedTotal)
	}
	if want := now.AddDate(0, 0, 30); !result.ValidUntil.Equal(want) {
		t.Errorf("valid until = %v, want %v", result.ValidUntil, want)
	}

	short := ApplySend(1, now, 7)
	if want := now.AddDate(0, 0, 7); !short.ValidUntil.Equal(want) {
		t.Errorf("custom window = %v, want %v", short.ValidUntil, want)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStatus(%s) = %s, %v", s, got, err)
		}
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestTarget(t *testing.T) {
	if to, _ := Target(ActionReopen); to != StatusSubmitted {
		t.Errorf("reopen target = %s", to)
	}
	if _, ok := Target(Action("nope")); ok {
		t.Error("expected unknown action to have no target")
	}
}

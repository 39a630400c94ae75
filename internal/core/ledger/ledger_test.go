package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/example/quotedesk/internal/apperr"
	"github.com/example/quotedesk/internal/core/access"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  int64
	}{
		{"empty", nil, 0},
		{"post and delivery", []Item{{1, 420000}, {1, 15000}}, 435000},
		{"quantities multiply", []Item{{3, 2500}, {2, 100}}, 7700},
		{"free item", []Item{{5, 0}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(tt.items)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Total = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotal_Overflow(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"line product", []Item{{2, math.MaxInt64/2 + 1}}},
		{"sum of lines", []Item{{1, math.MaxInt64}, {1, 1}}},
		{"sum of large lines", []Item{{2, math.MaxInt64 / 4}, {2, math.MaxInt64 / 4}, {1, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Total(tt.items)
			if !errors.Is(err, apperr.ErrInvalidState) {
				t.Fatalf("expected invalid state, got %d, %v", got, err)
			}
		})
	}
}

func TestTotal_AtLimit(t *testing.T) {
	got, err := Total([]Item{{1, math.MaxInt64 - 1}, {1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != math.MaxInt64 {
		t.Errorf("Total = %d, want %d", got, int64(math.MaxInt64))
	}
}

func TestNextSortOrder(t *testing.T) {
	if got := NextSortOrder(nil); got != 10 {
		t.Errorf("empty: got %d", got)
	}
	if got := NextSortOrder([]int{10, 40, 20}); got != 50 {
		t.Errorf("gapped: got %d", got)
	}
}

func TestCanEditLineItems(t *testing.T) {
	staff := access.Principal{ID: "USR-1", Role: access.RoleStaff}
	client := access.Principal{ID: "CLIENT-1", Role: access.RoleClient}

	tests := []struct {
		name      string
		principal access.Principal
		status    string
		wantKind  error
	}{
		{"staff on submitted", staff, "submitted", nil},
		{"staff on reviewing", staff, "reviewing", nil},
		{"staff on quoted", staff, "quoted", apperr.ErrInvalidState},
		{"staff on accepted", staff, "accepted", apperr.ErrInvalidState},
		{"staff on rejected", staff, "rejected", apperr.ErrInvalidState},
		{"client on reviewing", client, "reviewing", apperr.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanEditLineItems(EditContext{Principal: tt.principal, QuoteID: "QUOTE-001", QuoteStatus: tt.status}).Error()
			if tt.wantKind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("got %v, want %v", err, tt.wantKind)
			}
		})
	}
}

func TestValidateNewItem(t *testing.T) {
	tests := []struct {
		name        string
		ctx         NewItemContext
		wantAllowed bool
	}{
		{"valid", NewItemContext{"Post", 1, 420000}, true},
		{"zero price allowed", NewItemContext{"Consultation", 1, 0}, true},
		{"blank description", NewItemContext{"  ", 1, 10}, false},
		{"zero quantity", NewItemContext{"Post", 0, 10}, false},
		{"negative price", NewItemContext{"Post", 1, -1}, false},
		{"line total overflows", NewItemContext{"Post", 2, math.MaxInt64/2 + 1}, false},
		{"line total at limit", NewItemContext{"Post", 1, math.MaxInt64}, true},
		{"large quantity overflows", NewItemContext{"Post", math.MaxInt64, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateNewItem(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
		})
	}
}

package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/quotedesk/internal/core/conversation"
)

// parseMoney converts a decimal amount such as "4350" or "4350.5" to minor units.
// Only digits and a single decimal point are accepted.
func parseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if hasFrac && len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: use at most two decimal places", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100 {
		return 0, fmt.Errorf("invalid amount %q: too large", s)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	if units*100 > math.MaxInt64-cents {
		return 0, fmt.Errorf("invalid amount %q: too large", s)
	}
	return units*100 + cents, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// scopeFromID infers a conversation scope from an entity ID.
func scopeFromID(id string) (conversation.Scope, error) {
	switch {
	case strings.HasPrefix(id, "QUOTE-"):
		return conversation.QuoteScope(id), nil
	case strings.HasPrefix(id, "ORDER-"):
		return conversation.OrderScope(id), nil
	}
	return conversation.Scope{}, fmt.Errorf("%q is not a quote or order ID", id)
}

// parseDate reads a YYYY-MM-DD date as midnight UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

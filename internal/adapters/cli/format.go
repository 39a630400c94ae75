// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters resolve the caller's principal, format
// output and delegate business rules to services.
package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

const rule = "────────────────────────────────────────────────────────────────"

// formatMoney renders minor units as a decimal amount, e.g. 435000 -> 4350.00.
func formatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// colorStatus pads and colours a quote or order status for tables.
func colorStatus(status string) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case "accepted", "completed", "delivered":
		return color.New(color.FgGreen).Sprint(padded)
	case "quoted", "ready", "shipped":
		return color.New(color.FgCyan).Sprint(padded)
	case "rejected", "expired":
		return color.New(color.FgRed).Sprint(padded)
	case "reviewing", "materials", "building", "finishing":
		return color.New(color.FgYellow).Sprint(padded)
	default:
		return padded
	}
}

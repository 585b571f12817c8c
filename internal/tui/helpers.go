package tui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// spanishMonths are the short month names used in history timestamps.
var spanishMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// formatDate renders "02 ene 2026".
func formatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// formatDateTime renders "02 ene 2026 09:30".
func formatDateTime(t time.Time) string {
	return formatDate(t) + t.Format(" 15:04")
}

// statusLabel translates a subscription status for display.
func statusLabel(status string) string {
	switch status {
	case "active":
		return "Activa"
	case "inactive":
		return "Inactiva"
	case "cancelled":
		return "Cancelada"
	default:
		return status
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

package services

import (
	"strings"
	"time"

	"patient-portal-server/internal/apperrors"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate accepts a calendar date ("2030-01-07") or a full timestamp.
// Dates without an offset are read in the server's local time.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.In(time.Local), nil
		}
	}
	return time.Time{}, apperrors.NewValidation("Invalid date: " + raw)
}

// dayBounds returns 00:00:00.000 and 23:59:59.999 of t's local calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(time.Local)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

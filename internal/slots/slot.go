// Package slots turns the display labels doctors are configured with
// ("09:00 AM", "2:30 PM", "14:30") into structured start offsets, so
// ordering and equivalence never depend on how a label happens to be written.
package slots

import (
	"fmt"
	"strings"
	"time"
)

var layouts = []string{"3:04 PM", "3:04PM", "15:04"}

// Slot is a bookable time slot. Label is the display form, Start the
// offset from midnight.
type Slot struct {
	Label string
	Start time.Duration
}

// Parse parses a slot label.
func Parse(label string) (Slot, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range layouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			start := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
			return Slot{Label: label, Start: start}, nil
		}
	}
	return Slot{}, fmt.Errorf("unrecognised slot label %q", label)
}

// Equivalent reports whether two labels denote the same start time.
func Equivalent(a, b string) bool {
	if a == b {
		return true
	}
	sa, errA := Parse(a)
	sb, errB := Parse(b)
	return errA == nil && errB == nil && sa.Start == sb.Start
}

// Less orders labels by start time. Labels that cannot be parsed sort
// after parseable ones, lexically among themselves.
func Less(a, b string) bool {
	sa, errA := Parse(a)
	sb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		if sa.Start != sb.Start {
			return sa.Start < sb.Start
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Resolve finds the configured label that request refers to: an exact
// match first, otherwise a label with the same start time.
func Resolve(request string, configured ...[]string) (string, bool) {
	for _, list := range configured {
		for _, label := range list {
			if label == request {
				return label, true
			}
		}
	}
	for _, list := range configured {
		for _, label := range list {
			if Equivalent(label, request) {
				return label, true
			}
		}
	}
	return "", false
}

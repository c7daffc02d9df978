package slots

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]time.Duration{
		"09:00 AM": 9 * time.Hour,
		"9:30 am":  9*time.Hour + 30*time.Minute,
		"12:00 PM": 12 * time.Hour,
		"12:30 AM": 30 * time.Minute,
		"02:00 PM": 14 * time.Hour,
		"4:00PM":   16 * time.Hour,
		"14:30":    14*time.Hour + 30*time.Minute,
	}
	for label, want := range cases {
		slot, err := Parse(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, slot.Start, label)
		assert.Equal(t, label, slot.Label)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, label := range []string{"", "noon", "25:00", "09:75 AM"} {
		_, err := Parse(label)
		assert.Error(t, err, label)
	}
}

func TestLess_OrdersByStartNotText(t *testing.T) {
	labels := []string{"10:00 AM", "02:00 PM", "9:30 AM", "late", "09:00 AM"}
	sort.SliceStable(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })

	assert.Equal(t, []string{"09:00 AM", "9:30 AM", "10:00 AM", "02:00 PM", "late"}, labels)
}

func TestResolve(t *testing.T) {
	morning := []string{"09:00 AM", "09:30 AM"}
	afternoon := []string{"02:00 PM"}

	label, ok := Resolve("09:30 AM", morning, afternoon)
	assert.True(t, ok)
	assert.Equal(t, "09:30 AM", label)

	label, ok = Resolve("2:00 pm", morning, afternoon)
	assert.True(t, ok)
	assert.Equal(t, "02:00 PM", label)

	_, ok = Resolve("11:00 AM", morning, afternoon)
	assert.False(t, ok)
}

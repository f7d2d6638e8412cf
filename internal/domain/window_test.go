package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsWithinLightWindow(t *testing.T) {
	at := func(h, m int) TimeOfDay { return NewTimeOfDay(h, m) }

	tests := []struct {
		name       string
		now        TimeOfDay
		start, end TimeOfDay
		want       bool
	}{
		{"inside day window", at(10, 0), at(9, 0), at(17, 0), true},
		{"start is inclusive", at(9, 0), at(9, 0), at(17, 0), true},
		{"end is exclusive", at(17, 0), at(9, 0), at(17, 0), false},
		{"before day window", at(8, 59), at(9, 0), at(17, 0), false},
		{"wrap late evening", at(23, 0), at(22, 0), at(6, 0), true},
		{"wrap early morning", at(5, 59), at(22, 0), at(6, 0), true},
		{"wrap end is exclusive", at(6, 0), at(22, 0), at(6, 0), false},
		{"wrap midday", at(12, 0), at(22, 0), at(6, 0), false},
		{"empty window", at(12, 0), at(12, 0), at(12, 0), false},
		{"empty window at its bound", at(9, 0), at(9, 0), at(9, 0), false},
		{"empty window at midnight", at(0, 0), at(0, 0), at(0, 0), false},
		{"full day minus a minute", at(23, 58), at(0, 0), at(23, 59), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinLightWindow(tt.now, tt.start, tt.end))
		})
	}
}

// Exhaustively compares against a minute-by-minute membership table.
func TestIsWithinLightWindowMatchesIntervalDefinition(t *testing.T) {
	const day = 24 * 60
	bounds := []int{0, 1, 59, 60, 539, 540, 720, 1020, 1320, 1439}
	for _, s := range bounds {
		for _, e := range bounds {
			member := make([]bool, day)
			for m := s; m != e; m = (m + 1) % day {
				member[m] = true
			}
			start := TimeOfDay(time.Duration(s) * time.Minute)
			end := TimeOfDay(time.Duration(e) * time.Minute)
			for m := 0; m < day; m++ {
				now := TimeOfDay(time.Duration(m)*time.Minute + 30*time.Second)
				if got := IsWithinLightWindow(now, start, end); got != member[m] {
					t.Fatalf("start=%s end=%s now=%s: got %v, want %v", start, end, now, got, member[m])
				}
			}
		}
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeOfDayNormalizes(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{9, 0, "09:00"},
		{24, 0, "00:00"},
		{25, 61, "01:01"},
		{-1, 0, "23:00"},
		{0, -1, "00:59"},
		{-25, -61, "23:59"},
	}
	for _, tt := range tests {
		got := NewTimeOfDay(tt.hour, tt.minute)
		assert.Equal(t, tt.want, got.String(), "NewTimeOfDay(%d, %d)", tt.hour, tt.minute)
		assert.GreaterOrEqual(t, time.Duration(got), time.Duration(0))
		assert.Less(t, time.Duration(got), 24*time.Hour)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("22:30")
	require.NoError(t, err)
	assert.Equal(t, 22, got.Hour())
	assert.Equal(t, 30, got.Minute())

	got, err = ParseTimeOfDay(" 7:05 ")
	require.NoError(t, err)
	assert.Equal(t, "07:05", got.String())

	for _, bad := range []string{"", "12", "24:00", "12:60", "ab:00", "-1:00", "+9:00", "09:+5", "009:00", "09: 5", "1_0:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay, "input %q", bad)
	}
}

func TestTimeOfDayOfUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2024, 3, 1, 1, 30, 15, 0, time.UTC)

	assert.Equal(t, "01:30", TimeOfDayOf(instant).String())
	assert.Equal(t, "10:30", TimeOfDayOf(instant.In(tokyo)).String())
	assert.Equal(t, TimeOfDay(time.Hour+30*time.Minute+15*time.Second), TimeOfDayOf(instant))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "09:00", cfg.LightStart.String())
	assert.Equal(t, "17:00", cfg.LightEnd.String())
}

package sleep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want Clock
	}{
		{"00:00", 0},
		{"07:30", Clock(7*3600 + 30*60)},
		{"23:59", Clock(23*3600 + 59*60)},
		{"22:15:30", Clock(22*3600 + 15*60 + 30)},
		{" 06:05 ", Clock(6*3600 + 5*60)},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "7:30", "24:00", "12:60", "12:30:60", "ab:cd", "12", "12:30:00:00", "-1:30", "+9:+5", "-0:15", "+1:30", "12:+5", " 9:30"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseClock(in)
			assert.ErrorIs(t, err, ErrInvalidClock)
		})
	}
}

func TestClockString(t *testing.T) {
	c, err := ParseClock("23:45")
	require.NoError(t, err)
	assert.Equal(t, "23:45", c.String())
	assert.Equal(t, 23, c.Hour())
	assert.Equal(t, 45, c.Minute())

	c, err = ParseClock("01:02:03")
	require.NoError(t, err)
	assert.Equal(t, "01:02:03", c.String())
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name        string
		sleep, wake string
		want        float64
	}{
		{"overnight", "22:00", "07:00", 9.0},
		{"just past midnight", "23:45", "00:15", 0.5},
		{"same day", "13:00", "14:30", 1.5},
		{"after midnight", "01:00", "08:15", 7.25},
		{"equal clocks", "06:00", "06:00", 0},
		{"almost a day", "08:00", "07:59", 23 + 59.0/60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HoursBetween(tc.sleep, tc.wake)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestDuration_RangeAndModulo(t *testing.T) {
	for s := 0; s < secondsPerDay; s += 17 * 60 {
		for w := 0; w < secondsPerDay; w += 23 * 60 {
			got := Duration(Clock(s), Clock(w))
			require.GreaterOrEqual(t, got, 0.0)
			require.Less(t, got, 24.0)

			want := float64(((w-s)%secondsPerDay+secondsPerDay)%secondsPerDay) / secondsPerHour
			require.InDelta(t, want, got, 1e-9)
		}
		assert.Zero(t, Duration(Clock(s), Clock(s)))
	}
}

func TestHoursBetween_InvalidInput(t *testing.T) {
	_, err := HoursBetween("25:00", "07:00")
	assert.ErrorIs(t, err, ErrInvalidClock)

	_, err = HoursBetween("22:00", "bad")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

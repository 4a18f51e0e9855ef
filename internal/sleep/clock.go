// Package sleep holds the pure sleep-domain rules: clock arithmetic,
// aggregate statistics and the recommendation rule families.
package sleep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// ErrInvalidClock is returned for clock strings that are not HH:MM or HH:MM:SS.
var ErrInvalidClock = errors.New("invalid clock time")

// Clock is a time of day without a date, in seconds since midnight.
type Clock int

// ParseClock parses a 24h clock time in HH:MM or HH:MM:SS form.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	limits := []int{24, 60, 60}
	values := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 || !isDigit(part[0]) || !isDigit(part[1]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v >= limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		values[i] = v
	}

	return Clock(values[0]*secondsPerHour + values[1]*secondsPerMinute + values[2]), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Hour returns the hour component on a 24h clock.
func (c Clock) Hour() int {
	return int(c) / secondsPerHour
}

// Minute returns the minute component.
func (c Clock) Minute() int {
	return int(c) % secondsPerHour / secondsPerMinute
}

// Second returns the second component.
func (c Clock) Second() int {
	return int(c) % secondsPerMinute
}

// String formats the clock as HH:MM, or HH:MM:SS when seconds are set.
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Duration returns the hours slept between sleep and wake. Both clocks are
// placed on the same nominal date; a negative difference means the sleeper
// crossed midnight and 24 hours are added. The result lies in [0, 24) and
// equal clocks yield 0.
//
// Periods spanning more than one midnight, or daytime naps recorded with
// wake before sleep, cannot be told apart from overnight sleep.
func Duration(sleep, wake Clock) float64 {
	diff := int(wake) - int(sleep)
	if diff < 0 {
		diff += secondsPerDay
	}
	return float64(diff) / secondsPerHour
}

// HoursBetween parses both clock strings and returns Duration.
func HoursBetween(sleepTime, wakeTime string) (float64, error) {
	sleep, err := ParseClock(sleepTime)
	if err != nil {
		return 0, err
	}
	wake, err := ParseClock(wakeTime)
	if err != nil {
		return 0, err
	}
	return Duration(sleep, wake), nil
}

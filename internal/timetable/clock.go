package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time expressed as minutes since midnight. Times are
// normalised to integers internally so that comparisons never depend on the
// textual HH:MM representation.
type Clock int

// MinutesPerDay bounds valid Clock values.
const MinutesPerDay = 24 * 60

// ParseClock parses a 24-hour "HH:MM" string. A missing leading zero is
// tolerated on input; String always renders zero-padded.
func ParseClock(raw string) (Clock, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock hour %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock minute %q", raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return Clock(hour*60 + minute), nil
}

// MustClock parses a clock string and panics on failure. Intended for
// constants and tests only.
func MustClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the clock as zero-padded 24-hour HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// AddMinutes returns the clock shifted forward by the given minutes.
func (c Clock) AddMinutes(minutes int) Clock {
	return c + Clock(minutes)
}

// Valid reports whether the clock falls within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

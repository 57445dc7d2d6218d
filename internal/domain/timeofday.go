package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time within a session's calendar day, stored as
// seconds since midnight. Sessions record their start and end this way so
// durations stay within a single day; an end before the start yields a
// negative duration rather than rolling over midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, fmt.Errorf("parse time of day %q: %w", s, err)
		}
	}
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

// String formats the time as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// SecondsUntil returns the signed number of seconds from t to end.
func (t TimeOfDay) SecondsUntil(end TimeOfDay) int {
	return int(end) - int(t)
}

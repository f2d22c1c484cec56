package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned for a refresh time that is not H:MM.
var ErrInvalidTime = errors.New("invalid time")

// DefaultTime is used when no refresh time is configured.
var DefaultTime = Time{Hour: 18, Minute: 0}

// Time is a time of day with minute precision.
type Time struct {
	Hour   int
	Minute int
}

// String renders the time as HH:MM.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTime parses "H:MM" with hour 0-23 and minute 0-59.
func ParseTime(value string) (Time, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	if hour > 23 || minute > 59 {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return Time{Hour: hour, Minute: minute}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseTimes parses a comma-separated string or a string list. Blank entries
// are skipped and duplicates dropped. Unsupported input yields no times.
func ParseTimes(value any) ([]Time, error) {
	var parts []string
	switch v := value.(type) {
	case nil:
		return []Time{}, nil
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
	case []string:
		for _, item := range v {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
	default:
		return []Time{}, nil
	}

	times := make([]Time, 0, len(parts))
	seen := make(map[Time]struct{}, len(parts))
	for _, part := range parts {
		t, err := ParseTime(part)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		times = append(times, t)
	}
	return times, nil
}

// NormalizeTimes parses value and renders each time as HH:MM.
func NormalizeTimes(value any) ([]string, error) {
	times, err := ParseTimes(value)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.String())
	}
	return out, nil
}

// ResolveTimes parses value, falling back to DefaultTime when it holds no
// times.
func ResolveTimes(value any) ([]Time, error) {
	times, err := ParseTimes(value)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return []Time{DefaultTime}, nil
	}
	return times, nil
}

// Next returns the first configured time strictly after now, in now's
// location. It returns the zero time when times is empty.
func Next(now time.Time, times []Time) time.Time {
	var next time.Time
	for _, t := range times {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = time.Date(now.Year(), now.Month(), now.Day()+1, t.Hour, t.Minute, 0, 0, now.Location())
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}

package task

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate parses an RFC3339 timestamp or a YYYY-MM-DD date in loc.
// Empty or malformed input yields nil, which callers treat as "no date".
func ParseDate(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return &t
		}
	}
	return nil
}

// ParseEndDate is ParseDate for the upper bound of a range: a bare
// YYYY-MM-DD covers the whole day and yields its last nanosecond.
func ParseEndDate(s string, loc *time.Location) *time.Time {
	t := ParseDate(s, loc)
	if t == nil || len(strings.TrimSpace(s)) != len(time.DateOnly) {
		return t
	}
	eod := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &eod
}

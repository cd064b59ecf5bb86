package stress

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Granularity is the calendar unit periods are aligned to.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// ErrUnknownGranularity is returned for granularity names other than
// daily, weekly, monthly and yearly.
var ErrUnknownGranularity = errors.New("unknown granularity")

// ParseGranularity parses a granularity name. Empty input means daily.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownGranularity, s)
	}
}

// Period is one calendar-aligned bucket. Start and End are both inclusive;
// End is one nanosecond before the next period's Start.
type Period struct {
	Label string    `json:"label"`
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// OrderRange returns start and end in ascending order.
func OrderRange(start, end time.Time) (time.Time, time.Time) {
	if end.Before(start) {
		return end, start
	}
	return start, end
}

// BuildPeriods returns the contiguous periods of unit g covering
// [start, end]. The first period begins at or before start and the last
// one ends at or after end. Callers must pass start <= end; an inverted
// range yields no periods.
func BuildPeriods(start, end time.Time, g Granularity) []Period {
	if end.Before(start) {
		return nil
	}
	var periods []Period
	for cursor := alignStart(start, g); !cursor.After(end); {
		next := advance(cursor, g)
		last := next.Add(-time.Nanosecond)
		periods = append(periods, Period{
			Label: periodLabel(cursor, last, g),
			Key:   periodKey(cursor, g),
			Start: cursor,
			End:   last,
		})
		cursor = next
	}
	return periods
}

// FindPeriod returns the index of the period containing t.
func FindPeriod(periods []Period, t time.Time) (int, bool) {
	i := sort.Search(len(periods), func(i int) bool {
		return !periods[i].End.Before(t)
	})
	if i < len(periods) && periods[i].Contains(t) {
		return i, true
	}
	return 0, false
}

func alignStart(t time.Time, g Granularity) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

func advance(t time.Time, g Granularity) time.Time {
	switch g {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func periodKey(start time.Time, g Granularity) string {
	switch g {
	case Weekly:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Monthly:
		return start.Format("2006-01")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format(time.DateOnly)
	}
}

func periodLabel(start, end time.Time, g Granularity) string {
	switch g {
	case Weekly:
		return start.Format("Jan 02") + " - " + end.Format("Jan 02")
	case Monthly:
		return start.Format("Jan 2006")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format("Mon Jan 02")
	}
}

package dashboard

import (
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// DefaultSpan is the look-back window when no start date is given.
const DefaultSpan = 7 * 24 * time.Hour

// Range is an ordered, inclusive date range with its bucket unit.
type Range struct {
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Granularity stress.Granularity `json:"granularity"`
}

// NewRange resolves optional bounds against now. A missing end is the end
// of now's day and a missing start is DefaultSpan before that, aligned to
// the start of a day. Inverted bounds are swapped.
func NewRange(start, end *time.Time, g stress.Granularity, now time.Time) Range {
	if g == "" {
		g = stress.Daily
	}
	e := endOfDay(now)
	if end != nil && !end.IsZero() {
		e = *end
	}
	var st time.Time
	if start != nil && !start.IsZero() {
		st = *start
	} else {
		y, m, d := e.Add(-DefaultSpan).Date()
		st = time.Date(y, m, d, 0, 0, 0, 0, e.Location()).AddDate(0, 0, 1)
	}
	st, e = stress.OrderRange(st, e)
	return Range{Start: st, End: e, Granularity: g}
}

// ParseRange is NewRange over string inputs. Unparseable dates fall back to
// the defaults; an unknown granularity is an error.
func ParseRange(start, end, granularity string, now time.Time) (Range, error) {
	g, err := stress.ParseGranularity(granularity)
	if err != nil {
		return Range{}, err
	}
	loc := now.Location()
	return NewRange(task.ParseDate(start, loc), task.ParseEndDate(end, loc), g, now), nil
}

// Periods builds the range's buckets.
func (r Range) Periods() []stress.Period {
	return stress.BuildPeriods(r.Start, r.End, r.Granularity)
}

// Snapshot keeps tasks dated inside rng, plus undated tasks. When that
// leaves nothing from a non-empty set, every task is kept.
func Snapshot(tasks []task.Task, rng Range) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		d, ok := t.Date()
		if !ok || (!d.Before(rng.Start) && !d.After(rng.End)) {
			out = append(out, t)
		}
	}
	if len(out) == 0 && len(tasks) > 0 {
		return tasks
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

package stress

import (
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
)

// Bucket is the aggregate of the records falling inside one period.
type Bucket struct {
	Period   Period  `json:"period"`
	Stress   float64 `json:"stress"`
	Workload int     `json:"workload"`
	Count    int     `json:"count"`
}

// DateFunc returns the date a record is filed under, and false when the
// record has no usable date.
type DateFunc[T any] func(T) (time.Time, bool)

// ScoreFunc returns the stress contribution of a record.
type ScoreFunc[T any] func(T) float64

type aggregateConfig[T any] struct {
	workload func(T) bool
}

// AggregateOption tunes Aggregate.
type AggregateOption[T any] func(*aggregateConfig[T])

// WithWorkload counts only records matching pred towards Workload.
// Without it every selected record counts.
func WithWorkload[T any](pred func(T) bool) AggregateOption[T] {
	return func(c *aggregateConfig[T]) {
		c.workload = pred
	}
}

// Aggregate buckets records into periods. Stress is the mean score of the
// records in a bucket and is 0 for an empty bucket. Records without a date
// or outside every period are ignored.
func Aggregate[T any](records []T, periods []Period, date DateFunc[T], score ScoreFunc[T], opts ...AggregateOption[T]) []Bucket {
	var cfg aggregateConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	buckets := make([]Bucket, len(periods))
	sums := make([]float64, len(periods))
	for i, p := range periods {
		buckets[i].Period = p
	}

	for _, rec := range records {
		d, ok := date(rec)
		if !ok {
			continue
		}
		i, ok := FindPeriod(periods, d)
		if !ok {
			continue
		}
		buckets[i].Count++
		sums[i] += score(rec)
		if cfg.workload == nil || cfg.workload(rec) {
			buckets[i].Workload++
		}
	}

	for i := range buckets {
		buckets[i].Stress = SafeDiv(sums[i], float64(buckets[i].Count))
	}
	return buckets
}

// CountPerPeriod counts the records filed under each period. It is the
// workload side of Aggregate without scoring anything.
func CountPerPeriod[T any](records []T, periods []Period, date DateFunc[T]) []int {
	counts := make([]int, len(periods))
	for _, rec := range records {
		d, ok := date(rec)
		if !ok {
			continue
		}
		if i, ok := FindPeriod(periods, d); ok {
			counts[i]++
		}
	}
	return counts
}

// TaskSeries buckets tasks by due date. Stress is the mean daily-profile
// score and Workload counts unfinished tasks.
func TaskSeries(tasks []task.Task, periods []Period, now time.Time) []Bucket {
	return Aggregate(tasks, periods,
		func(t task.Task) (time.Time, bool) { return t.Due() },
		func(t task.Task) float64 { return Score(t, now, ProfileDaily) },
		WithWorkload(func(t task.Task) bool { return !t.IsDone() }),
	)
}

package stress

import (
	"sort"
	"strings"
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
)

// StatusTotals counts tasks per dashboard column.
type StatusTotals struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Missing    int `json:"missing"`
	Completed  int `json:"completed"`
}

// Total is the number of tasks counted.
func (s StatusTotals) Total() int {
	return s.Todo + s.InProgress + s.Missing + s.Completed
}

// StatusCounts partitions tasks into todo, in_progress, missing and
// completed using the derived status at now. Every task lands in exactly
// one column.
func StatusCounts(tasks []task.Task, now time.Time) StatusTotals {
	var totals StatusTotals
	for _, t := range tasks {
		switch task.StatusBucket(t, now) {
		case task.StatusCompleted:
			totals.Completed++
		case task.StatusMissing:
			totals.Missing++
		case task.StatusInProgress:
			totals.InProgress++
		default:
			totals.Todo++
		}
	}
	return totals
}

// Slice is one named count of a categorical distribution.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PriorityDistribution counts tasks per priority, High first. Unknown
// priorities count as Medium.
func PriorityDistribution(tasks []task.Task) []Slice {
	counts := make(map[task.Priority]int, len(task.Priorities))
	for _, t := range tasks {
		counts[task.NormalizePriority(t.Priority)]++
	}
	out := make([]Slice, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		out = append(out, Slice{Name: string(p), Value: counts[p]})
	}
	return out
}

// StatusAverages holds the mean daily-profile stress per derived status.
type StatusAverages struct {
	Todo       float64 `json:"todo"`
	InProgress float64 `json:"in_progress"`
	Missing    float64 `json:"missing"`
	// Completed is always 0: finished tasks are resolved for dashboard purposes.
	Completed float64 `json:"completed"`
}

// AverageByStatus averages daily-profile scores of unfinished tasks per
// derived status, rounded to one decimal.
func AverageByStatus(tasks []task.Task, now time.Time) StatusAverages {
	var todo, inProgress, missing []float64
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		s := Score(t, now, ProfileDaily)
		switch task.DeriveStatus(t, now) {
		case task.StatusMissing:
			missing = append(missing, s)
		case task.StatusInProgress:
			inProgress = append(inProgress, s)
		default:
			todo = append(todo, s)
		}
	}
	return StatusAverages{
		Todo:       Round(Mean(todo), 1),
		InProgress: Round(Mean(inProgress), 1),
		Missing:    Round(Mean(missing), 1),
	}
}

// TagShare is a tag frequency with its share of all tag occurrences.
type TagShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Pct   int    `json:"pct"`
}

// TagDistribution tallies tags across tag sets. Pct is the rounded share of
// the total and is 0 everywhere when there are no tags. Results are sorted
// by count, then name.
func TagDistribution(tagSets [][]string) []TagShare {
	counts := make(map[string]int)
	total := 0
	for _, tags := range tagSets {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			counts[tag]++
			total++
		}
	}

	out := make([]TagShare, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagShare{
			Name:  name,
			Value: n,
			Pct:   int(Round(SafeDiv(float64(n), float64(total))*100, 0)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TaskTags collects the tag sets of tasks for TagDistribution.
func TaskTags(tasks []task.Task) [][]string {
	sets := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		sets = append(sets, t.Tags)
	}
	return sets
}

// ScoredTask pairs a task with its score under one profile.
type ScoredTask struct {
	Task   task.Task `json:"task"`
	Stress float64   `json:"stress"`
}

// normalizedBaseline is the daily total treated as a heavy day: five
// maximally stressed tasks.
const normalizedBaseline = DailyTaskMax * 5

// DailySummary is the daily-profile summary of a set of tasks.
type DailySummary struct {
	Total float64 `json:"total"`
	Max   float64 `json:"max"`
	// Percent is Total as a share of Max, one decimal, 0 for no tasks.
	Percent float64 `json:"percent"`
	// Normalized maps Total onto the 1–5 scale used by stress logs.
	Normalized float64      `json:"normalized"`
	Tasks      []ScoredTask `json:"tasks"`
}

// DailyStress scores every task under the daily profile and summarises
// the load.
func DailyStress(tasks []task.Task, now time.Time) DailySummary {
	d := DailySummary{Tasks: make([]ScoredTask, 0, len(tasks))}
	for _, t := range tasks {
		s := Score(t, now, ProfileDaily)
		d.Total += s
		d.Tasks = append(d.Tasks, ScoredTask{Task: t, Stress: s})
	}
	d.Max = DailyTaskMax * float64(len(tasks))
	d.Percent = Round(SafeDiv(d.Total, d.Max)*100, 1)
	d.Normalized = Round(1+SafeDiv(d.Total, normalizedBaseline)*4, 1)
	return d
}

// Active summarises display-profile stress over unfinished tasks.
type Active struct {
	Average float64 `json:"average"`
	Total   float64 `json:"total"`
	Max     float64 `json:"max"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// ActiveSummary summarises the display-profile stress of unfinished tasks.
// Max is the task count since each task peaks at 1.
func ActiveSummary(tasks []task.Task, now time.Time) Active {
	var a Active
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		a.Total += Score(t, now, ProfileDisplay)
		a.Count++
	}
	a.Max = float64(a.Count)
	a.Average = SafeDiv(a.Total, a.Max)
	a.Percent = Round(a.Average*100, 1)
	return a
}

// MostStressful ranks unfinished tasks by display-profile stress, highest
// first, keeping at most limit entries (all when limit <= 0).
func MostStressful(tasks []task.Task, now time.Time, limit int) []ScoredTask {
	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		scored = append(scored, ScoredTask{Task: t, Stress: Score(t, now, ProfileDisplay)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Stress > scored[j].Stress
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

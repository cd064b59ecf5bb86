// Package stress turns tasks into bounded stress values and rolls them up
// into time buckets, summaries and a workload/stress trend line.
//
// Everything here is a pure function of its inputs. Callers pass the
// current time explicitly.
package stress

import (
	"fmt"
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
)

// Profile selects one of the two scoring scales. Values produced under
// different profiles must not be combined in one ratio.
type Profile int

const (
	// ProfileDisplay is the averaged scale in [0, 1] used for per-task display
	// and for ranking the most stressful tasks.
	ProfileDisplay Profile = iota
	// ProfileDaily is the additive scale in [1, 3.2] used for daily and
	// per-period aggregation percentages.
	ProfileDaily
)

func (p Profile) String() string {
	switch p {
	case ProfileDisplay:
		return "display"
	case ProfileDaily:
		return "daily"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// Bounds returns the closed range every score of the profile falls in.
func (p Profile) Bounds() (lo, hi float64) {
	if p == ProfileDaily {
		return 1, DailyTaskMax
	}
	return 0, 1
}

const (
	// DailyTaskMax is the largest additive score a single task can reach:
	// High priority, overdue, unfinished.
	DailyTaskMax = 3 + dailyOverdueDelta + dailyUnfinishedDelta

	dailyOverdueDelta    = 0.10
	dailyDueSoonDelta    = 0.05
	dailyNoDueDelta      = 0.05
	dailyUnfinishedDelta = 0.10

	dueSoonWindow = 72 * time.Hour
	dueDayWindow  = 24 * time.Hour
	dueWeekWindow = 7 * 24 * time.Hour

	// subtasks can lower the completion factor by at most this share
	maxSubtaskRelief = 0.3
)

// Score returns the stress value of t at now under profile p.
func Score(t task.Task, now time.Time, p Profile) float64 {
	if p == ProfileDaily {
		return dailyScore(t, now)
	}
	return displayScore(t, now)
}

// PriorityWeight returns the weight of a priority under profile p.
// Unknown priorities weigh like Medium.
func PriorityWeight(pr task.Priority, p Profile) float64 {
	pr = task.NormalizePriority(pr)
	if p == ProfileDaily {
		switch pr {
		case task.PriorityHigh:
			return 3
		case task.PriorityLow:
			return 1
		default:
			return 2
		}
	}
	switch pr {
	case task.PriorityHigh:
		return 1.0
	case task.PriorityLow:
		return 0.3
	default:
		return 0.6
	}
}

// DeadlineFactor is the display-profile deadline component.
func DeadlineFactor(t task.Task, now time.Time) float64 {
	if t.IsDone() {
		return 0
	}
	due, ok := t.Due()
	if !ok {
		return 0.5
	}
	left := due.Sub(now)
	switch {
	case left < 0:
		return 1.0
	case left <= dueDayWindow:
		return 0.9
	case left <= dueSoonWindow:
		return 0.7
	case left <= dueWeekWindow:
		return 0.5
	default:
		return 0.3
	}
}

// CompletionFactor is the display-profile completion component.
func CompletionFactor(t task.Task, now time.Time) float64 {
	var f float64
	switch task.DeriveStatus(t, now) {
	case task.StatusCompleted, task.StatusDoneLate:
		return 0
	case task.StatusInProgress:
		f = 0.7
	case task.StatusMissing:
		f = 1.0
	default:
		f = 0.8
	}
	if frac, ok := t.SubtaskProgress(); ok {
		f *= 1 - frac*maxSubtaskRelief
	}
	return f
}

func displayScore(t task.Task, now time.Time) float64 {
	sum := PriorityWeight(t.Priority, ProfileDisplay) + DeadlineFactor(t, now) + CompletionFactor(t, now)
	return Clamp01(sum / 3)
}

func dailyScore(t task.Task, now time.Time) float64 {
	weight := PriorityWeight(t.Priority, ProfileDaily)
	if t.IsDone() {
		return weight
	}
	delta := dailyNoDueDelta
	if due, ok := t.Due(); ok {
		left := due.Sub(now)
		switch {
		case left < 0:
			delta = dailyOverdueDelta
		case left <= dueSoonWindow:
			delta = dailyDueSoonDelta
		default:
			delta = 0
		}
	}
	return Round(weight+delta+dailyUnfinishedDelta, 2)
}

// ConvertDailyToDisplay maps a daily-profile value linearly onto [0, 1].
// It is a reporting conversion only; aggregation never applies it implicitly.
func ConvertDailyToDisplay(v float64) float64 {
	lo, hi := ProfileDaily.Bounds()
	return Clamp01(SafeDiv(v-lo, hi-lo))
}

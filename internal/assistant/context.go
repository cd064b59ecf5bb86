// Package assistant derives the stress context handed to the chat
// assistant: the current load, what is due, and what to do about it.
package assistant

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// Level is the coarse stress label shown to the user.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

const (
	highPercent     = 75
	moderatePercent = 50
	dueSoonWindow   = 72 * time.Hour
	maxDeadlines    = 3
	maxStressors    = 3
)

// Deadline is an upcoming due date of an unfinished task.
type Deadline struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title"`
	Due    time.Time `json:"due"`
}

// Context is everything the assistant needs to talk about the user's load.
type Context struct {
	Percent         float64             `json:"percent"`
	Label           Level               `json:"label"`
	Overdue         int                 `json:"overdue"`
	DueSoon         int                 `json:"due_soon"`
	NextDeadlines   []Deadline          `json:"next_deadlines"`
	TopStressors    []stress.ScoredTask `json:"top_stressors"`
	Recommendations []string            `json:"recommendations"`
	TaskSuggestions []string            `json:"task_suggestions"`
	Reply           string              `json:"reply"`
}

// Build assembles the assistant context for tasks at now.
func Build(tasks []task.Task, now time.Time) Context {
	daily := stress.DailyStress(tasks, now)
	overdue, dueSoon := deadlinePressure(tasks, now)
	label := Classify(daily.Percent, overdue, dueSoon)

	c := Context{
		Percent:         daily.Percent,
		Label:           label,
		Overdue:         overdue,
		DueSoon:         dueSoon,
		NextDeadlines:   nextDeadlines(tasks, maxDeadlines),
		TopStressors:    stress.MostStressful(tasks, now, maxStressors),
		Recommendations: Recommendations(daily.Percent),
		TaskSuggestions: taskSuggestions(tasks, daily, now),
	}
	c.Reply = reply(c)
	return c
}

// Classify labels the load: High at 75% or two overdue tasks, Moderate at
// 50%, one overdue task or two tasks due within 72 hours, Low otherwise.
func Classify(percent float64, overdue, dueSoon int) Level {
	switch {
	case percent >= highPercent || overdue >= 2:
		return LevelHigh
	case percent >= moderatePercent || overdue >= 1 || dueSoon >= 2:
		return LevelModerate
	default:
		return LevelLow
	}
}

func deadlinePressure(tasks []task.Task, now time.Time) (overdue, dueSoon int) {
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		due, ok := t.Due()
		if !ok {
			continue
		}
		left := due.Sub(now)
		switch {
		case left < 0:
			overdue++
		case left <= dueSoonWindow:
			dueSoon++
		}
	}
	return overdue, dueSoon
}

// nextDeadlines returns the earliest due dates of unfinished tasks,
// overdue ones included.
func nextDeadlines(tasks []task.Task, limit int) []Deadline {
	var out []Deadline
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		due, ok := t.Due()
		if !ok {
			continue
		}
		out = append(out, Deadline{TaskID: t.ID, Title: titleOf(t), Due: due})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Due.Before(out[j].Due) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Recommendations returns general advice for the overall stress percent.
func Recommendations(percent float64) []string {
	switch {
	case percent >= highPercent:
		return []string{
			"Prioritize self-care: take a short walk, hydrate, and schedule a 10-minute reset.",
			"Tackle the top 1-2 highest-stress tasks first; break each into small steps.",
			"Reschedule or renegotiate non-urgent items to reduce load for today.",
		}
	case percent >= moderatePercent:
		return []string{
			"Focus on tasks due within 72 hours; timebox 25-30 minutes per block.",
			"Batch similar tasks to minimize context switching.",
			"Plan a short buffer after each task to avoid spillover stress.",
		}
	default:
		return []string{
			"Maintain momentum: plan the next 2-3 tasks for tomorrow.",
			"Wrap up loose ends or quick wins to keep stress low.",
			"Do a brief review of priorities and tidy your workspace.",
		}
	}
}

// taskSuggestions describes every unfinished task, most stressful first,
// with the share of today's daily-profile total it accounts for.
func taskSuggestions(tasks []task.Task, daily stress.DailySummary, now time.Time) []string {
	var active []stress.ScoredTask
	activeTotal := 0.0
	for _, st := range daily.Tasks {
		if st.Task.IsDone() {
			continue
		}
		active = append(active, st)
		activeTotal += st.Stress
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Stress > active[j].Stress })

	total := daily.Total
	if total == 0 {
		total = activeTotal
	}

	out := make([]string, 0, len(active))
	for _, st := range active {
		dueText := "no due date"
		if due, ok := st.Task.Due(); ok {
			dueText = humanize.RelTime(due, now, "ago", "from now")
		}
		drop := int(math.Round(stress.SafeDiv(st.Stress, total) * 100))
		out = append(out, fmt.Sprintf("%q - priority %s, due %s. Completing this could reduce today's stress by ~%d%%.",
			titleOf(st.Task), task.NormalizePriority(st.Task.Priority), dueText, drop))
	}
	return out
}

func reply(c Context) string {
	next := "None"
	if len(c.NextDeadlines) > 0 {
		parts := make([]string, 0, len(c.NextDeadlines))
		for _, d := range c.NextDeadlines {
			parts = append(parts, fmt.Sprintf("%s (%s)", d.Title, d.Due.Format("Jan 02")))
		}
		next = strings.Join(parts, ", ")
	}

	var guidance string
	switch c.Label {
	case LevelHigh:
		guidance = "Pause for 3-5 minutes, then tackle the most impactful overdue task. Use a 25-minute focus block."
	case LevelModerate:
		guidance = "Prioritize items due within 72 hours. Complete one small task to build momentum."
	default:
		guidance = "Maintain pace. Plan the next 2-3 steps and clear quick wins."
	}

	return fmt.Sprintf("Stress: %d%% (%s). Due soon: %d. Overdue: %d. Next deadlines: %s. %s",
		int(math.Round(c.Percent)), c.Label, c.DueSoon, c.Overdue, next, guidance)
}

func titleOf(t task.Task) string {
	if strings.TrimSpace(t.Title) == "" {
		return "Untitled"
	}
	return t.Title
}

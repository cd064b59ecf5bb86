package task

import (
	"strings"
	"time"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the known priorities, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// NormalizePriority maps case-insensitive input onto a known priority.
// Unknown or empty values resolve to Medium.
func NormalizePriority(p Priority) Priority {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Status is the stored workflow status of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusMissing    Status = "missing"
	StatusCompleted  Status = "completed"
	StatusDoneLate   Status = "done_late"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusMissing, StatusCompleted, StatusDoneLate:
		return true
	}
	return false
}

// Subtask is a checklist item inside a task.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Task is a student task record.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id,omitempty"`
	Title       string     `json:"title"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Completed   bool       `json:"completed"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Due returns the due date, if one is set.
func (t Task) Due() (time.Time, bool) {
	return validTime(t.DueDate)
}

// Start returns the start date, if one is set.
func (t Task) Start() (time.Time, bool) {
	return validTime(t.StartDate)
}

// Date is the date a task is filed under: due date, falling back to start date.
func (t Task) Date() (time.Time, bool) {
	if due, ok := t.Due(); ok {
		return due, true
	}
	return t.Start()
}

// IsDone reports whether the task has been finished, on time or late.
func (t Task) IsDone() bool {
	return t.Completed || t.Status == StatusCompleted || t.Status == StatusDoneLate
}

// SubtaskProgress returns the fraction of completed subtasks and whether any exist.
func (t Task) SubtaskProgress() (float64, bool) {
	if len(t.Subtasks) == 0 {
		return 0, false
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return float64(done) / float64(len(t.Subtasks)), true
}

func validTime(t *time.Time) (time.Time, bool) {
	if t == nil || t.IsZero() {
		return time.Time{}, false
	}
	return *t, true
}

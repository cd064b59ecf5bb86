package mcp

import (
	"time"

	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/task"
)

type SubtaskParams struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed,omitempty"`
}

type AddTaskParams struct {
	Title     string          `json:"title"`
	Priority  string          `json:"priority,omitempty"`
	Status    string          `json:"status,omitempty"`
	StartDate string          `json:"start_date,omitempty"`
	DueDate   string          `json:"due_date,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Subtasks  []SubtaskParams `json:"subtasks,omitempty"`
}

type UpdateTaskParams struct {
	ID        string          `json:"id"`
	Title     *string         `json:"title,omitempty"`
	Priority  *string         `json:"priority,omitempty"`
	Status    *string         `json:"status,omitempty"`
	StartDate string          `json:"start_date,omitempty"`
	DueDate   string          `json:"due_date,omitempty"`
	ClearDue  bool            `json:"clear_due,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Subtasks  []SubtaskParams `json:"subtasks,omitempty"`
}

type TaskIDParams struct {
	ID string `json:"id"`
}

type ListTasksParams struct {
	DueFrom string `json:"due_from,omitempty"`
	DueTo   string `json:"due_to,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

type LogStressParams struct {
	Level     int      `json:"level"`
	Timestamp string   `json:"timestamp,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Note      string   `json:"note,omitempty"`
}

type ListStressLogsParams struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// RangeParams selects a dashboard window. Empty values default to the last
// seven days at daily granularity.
type RangeParams struct {
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Granularity string `json:"granularity,omitempty"`
}

type UpsertStudentParams struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Department       string   `json:"department,omitempty"`
	YearLevel        string   `json:"year_level,omitempty"`
	StudentNumber    string   `json:"student_number,omitempty"`
	StressPercentage *float64 `json:"stress_percentage,omitempty"`
	StressLevel      *float64 `json:"stress_level,omitempty"`
}

// TaskResponse is a stored task together with its current stress scores.
type TaskResponse struct {
	task.Task
	Stress dashboard.TaskScore `json:"stress"`
}

type StressLogResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     int       `json:"level"`
	Percent   float64   `json:"percent"`
	Tags      []string  `json:"tags,omitempty"`
	Note      string    `json:"note,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Package dashboard loads a user's or the whole school's records and runs
// them through the stress engine.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/calmmind/internal/admin"
	"github.com/rpggio/calmmind/internal/assistant"
	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// TaskLister lists tasks.
type TaskLister interface {
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
}

// StressLogLister lists stress log entries.
type StressLogLister interface {
	List(ctx context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error)
}

// StudentLister lists student profiles.
type StudentLister interface {
	List(ctx context.Context, opts student.ListOptions) ([]student.Student, error)
}

// Service assembles dashboards. It owns the clock; everything below it
// receives now explicitly.
type Service struct {
	tasks    TaskLister
	logs     StressLogLister
	students StudentLister
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new dashboard service.
func NewService(tasks TaskLister, logs StressLogLister, students StudentLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tasks: tasks, logs: logs, students: students, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// User is a single student's dashboard for a date range.
type User struct {
	Range           Range                 `json:"range"`
	StatusCounts    stress.StatusTotals   `json:"status_counts"`
	PriorityDist    []stress.Slice        `json:"priority_distribution"`
	AverageByStatus stress.StatusAverages `json:"average_by_status"`
	Daily           stress.DailySummary   `json:"daily"`
	Active          stress.Active         `json:"active"`
	MostStressful   []stress.ScoredTask   `json:"most_stressful"`
	TaskSeries      []stress.Bucket       `json:"task_series"`
	Trends          admin.Overview        `json:"trends"`
	TagDist         []stress.TagShare     `json:"tag_distribution"`
}

// UserDashboard builds ownerID's dashboard over rng.
func (s *Service) UserDashboard(ctx context.Context, ownerID string, rng Range) (*User, error) {
	now := s.now()
	tasks, err := s.tasks.List(ctx, task.ListOptions{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logs, err := s.logs.List(ctx, stresslog.ListOptions{OwnerID: ownerID, From: &rng.Start, To: &rng.End})
	if err != nil {
		return nil, fmt.Errorf("loading stress logs: %w", err)
	}

	snapshot := Snapshot(tasks, rng)
	periods := rng.Periods()

	s.logger.Debug("user dashboard", "owner", ownerID, "tasks", len(tasks), "snapshot", len(snapshot), "logs", len(logs), "periods", len(periods))

	return &User{
		Range:           rng,
		StatusCounts:    stress.StatusCounts(snapshot, now),
		PriorityDist:    stress.PriorityDistribution(snapshot),
		AverageByStatus: stress.AverageByStatus(snapshot, now),
		Daily:           stress.DailyStress(snapshot, now),
		Active:          stress.ActiveSummary(snapshot, now),
		MostStressful:   stress.MostStressful(snapshot, now, 5),
		TaskSeries:      stress.TaskSeries(tasks, periods, now),
		Trends:          admin.AggregateAcrossUsers(tasks, logs, periods, now),
		TagDist:         stress.TagDistribution(stress.TaskTags(snapshot)),
	}, nil
}

// AssistantContext builds the chat assistant context from all of ownerID's tasks.
func (s *Service) AssistantContext(ctx context.Context, ownerID string) (*assistant.Context, error) {
	tasks, err := s.tasks.List(ctx, task.ListOptions{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	c := assistant.Build(tasks, s.now())
	return &c, nil
}

// TaskScore is a task's stress under both profiles.
type TaskScore struct {
	TaskID  string      `json:"task_id"`
	Status  task.Status `json:"status"`
	Display float64     `json:"display"`
	Daily   float64     `json:"daily"`
}

// ScoreTask scores t at the service clock's current time.
func (s *Service) ScoreTask(t task.Task) TaskScore {
	now := s.now()
	return TaskScore{
		TaskID:  t.ID,
		Status:  task.DeriveStatus(t, now),
		Display: stress.Round(stress.Score(t, now, stress.ProfileDisplay), 4),
		Daily:   stress.Score(t, now, stress.ProfileDaily),
	}
}

// AdminOverview aggregates every user's tasks and the stress logs in rng.
func (s *Service) AdminOverview(ctx context.Context, rng Range) (*admin.Overview, error) {
	tasks, err := s.tasks.List(ctx, task.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logs, err := s.logs.List(ctx, stresslog.ListOptions{From: &rng.Start, To: &rng.End})
	if err != nil {
		return nil, fmt.Errorf("loading stress logs: %w", err)
	}
	o := admin.AggregateAcrossUsers(tasks, logs, rng.Periods(), s.now())
	return &o, nil
}

// Reports builds one report row per student for rng.
func (s *Service) Reports(ctx context.Context, rng Range) ([]admin.ReportRow, error) {
	students, err := s.students.List(ctx, student.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	tasks, err := s.tasks.List(ctx, task.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logs, err := s.logs.List(ctx, stresslog.ListOptions{From: &rng.Start, To: &rng.End})
	if err != nil {
		return nil, fmt.Errorf("loading stress logs: %w", err)
	}
	return admin.BuildReports(students, tasks, logs, rng.Start, rng.End, s.now()), nil
}

// Departments counts students per department.
func (s *Service) Departments(ctx context.Context) ([]stress.Slice, error) {
	students, err := s.students.List(ctx, student.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	return admin.DepartmentDistribution(students), nil
}

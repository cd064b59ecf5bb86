package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
)

// TaskStore is the slice of the task service the importer needs.
type TaskStore interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
}

// Result summarises an import run.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Importer copies calendar events into a user's tasks.
type Importer struct {
	source EventSource
	tasks  TaskStore
	logger *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(source EventSource, tasks TaskStore, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{source: source, tasks: tasks, logger: logger}
}

// Import creates a task for every event in [from, to] that owner doesn't
// already have. An existing task with the same title and due day counts as
// a duplicate, so repeated imports are idempotent.
func (im *Importer) Import(ctx context.Context, owner string, from, to time.Time) (Result, error) {
	events, err := im.source.Events(ctx, from, to)
	if err != nil {
		return Result{}, err
	}
	existing, err := im.tasks.List(ctx, task.ListOptions{OwnerID: owner})
	if err != nil {
		return Result{}, fmt.Errorf("listing tasks: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[dedupKey(t.Title, t.DueDate)] = true
	}

	var res Result
	for _, ev := range events {
		req, ok := EventToTask(ev, owner, from.Location())
		if !ok {
			res.Skipped++
			continue
		}
		key := dedupKey(req.Title, req.DueDate)
		if seen[key] {
			res.Skipped++
			continue
		}
		if _, err := im.tasks.Create(ctx, req); err != nil {
			return res, fmt.Errorf("importing %q: %w", req.Title, err)
		}
		seen[key] = true
		res.Created++
	}
	im.logger.Info("calendar import finished", "owner", owner, "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func dedupKey(title string, due *time.Time) string {
	day := ""
	if due != nil {
		day = due.Format(time.DateOnly)
	}
	return strings.ToLower(strings.TrimSpace(title)) + "|" + day
}

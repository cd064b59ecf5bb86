package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/calmmind/internal/repository"
)

// Service handles task operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new task service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock used for timestamps.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateRequest defines task creation inputs.
type CreateRequest struct {
	OwnerID   string
	Title     string
	Priority  Priority
	Status    Status
	StartDate *time.Time
	DueDate   *time.Time
	Tags      []string
	Subtasks  []Subtask
}

// UpdateRequest describes a partial task update. Nil fields are left unchanged.
type UpdateRequest struct {
	OwnerID   string
	ID        string
	Title     *string
	Priority  *Priority
	Status    *Status
	StartDate *time.Time
	DueDate   *time.Time
	ClearDue  bool
	Tags      []string
	Subtasks  []Subtask
}

// Create validates and stores a new task.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if strings.TrimSpace(req.OwnerID) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}
	status := req.Status
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidInput
	}

	now := s.now()
	t := &Task{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		Title:     strings.TrimSpace(req.Title),
		Priority:  NormalizePriority(req.Priority),
		Status:    status,
		StartDate: req.StartDate,
		DueDate:   req.DueDate,
		Tags:      cleanTags(req.Tags),
		Subtasks:  req.Subtasks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == StatusCompleted || status == StatusDoneLate {
		t.Completed = true
		t.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}

// Get fetches a task by ID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	t, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// Update applies a partial update. Setting the status to completed goes
// through the same late-completion rule as Complete.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Task, error) {
	if req.ID == "" || req.OwnerID == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, req.OwnerID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidInput
		}
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Priority != nil {
		updated.Priority = NormalizePriority(*req.Priority)
	}
	if req.StartDate != nil {
		updated.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		updated.DueDate = req.DueDate
	}
	if req.ClearDue {
		updated.DueDate = nil
	}
	if req.Tags != nil {
		updated.Tags = cleanTags(req.Tags)
	}
	if req.Subtasks != nil {
		updated.Subtasks = req.Subtasks
	}

	now := s.now()
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidInput
		}
		switch *req.Status {
		case StatusCompleted, StatusDoneLate:
			markDone(&updated, now)
		default:
			updated.Status = *req.Status
			updated.Completed = false
			updated.CompletedAt = nil
		}
	}
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return &updated, nil
}

// Complete marks a task finished. Tasks finished after their due date are
// stored as done_late.
func (s *Service) Complete(ctx context.Context, ownerID, id string) (*Task, error) {
	status := StatusCompleted
	return s.Update(ctx, UpdateRequest{OwnerID: ownerID, ID: id, Status: &status})
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// List returns tasks matching opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	tasks, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func markDone(t *Task, now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
	t.Status = StatusCompleted
	if due, ok := t.Due(); ok && now.After(due) {
		t.Status = StatusDoneLate
	}
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/rpggio/calmmind/internal/repository"
)

// Service handles student profile operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new student service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Upsert creates or replaces a student profile.
func (s *Service) Upsert(ctx context.Context, st *Student) error {
	if st == nil {
		return ErrInvalidInput
	}
	st.ID = strings.TrimSpace(st.ID)
	st.Name = strings.TrimSpace(st.Name)
	st.Department = strings.TrimSpace(st.Department)
	if st.ID == "" || st.Name == "" {
		return ErrInvalidInput
	}
	if st.StressLevel != nil && (*st.StressLevel < 1 || *st.StressLevel > 5) {
		return ErrInvalidInput
	}
	if st.StressPercentage != nil && (*st.StressPercentage < 0 || *st.StressPercentage > 100) {
		return ErrInvalidInput
	}
	if err := s.repo.Upsert(ctx, st); err != nil {
		return fmt.Errorf("saving student: %w", err)
	}
	return nil
}

// Get fetches a student by ID.
func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("getting student: %w", err)
	}
	return st, nil
}

// List returns students, optionally filtered by department.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Student, error) {
	students, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return students, nil
}

// RecordLiveStress stores percent (0-100) and the matching 1-5 level on
// the student's profile. Users without a profile are skipped.
func (s *Service) RecordLiveStress(ctx context.Context, id string, percent float64) error {
	st, err := s.Get(ctx, id)
	if errors.Is(err, ErrStudentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	percent = math.Max(0, math.Min(100, percent))
	level := math.Round((1+percent/25)*10) / 10
	st.StressPercentage = &percent
	st.StressLevel = &level
	return s.Upsert(ctx, st)
}

package stresslog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles stress log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new stress log service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// SetClock replaces the wall clock used for missing timestamps.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Log validates and stores an entry, stamping it with the current time if
// it has none.
func (s *Service) Log(ctx context.Context, entry *Entry) error {
	if entry == nil || strings.TrimSpace(entry.OwnerID) == "" {
		return ErrInvalidInput
	}
	if entry.Level < MinLevel || entry.Level > MaxLevel {
		return ErrInvalidLevel
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Note = strings.TrimSpace(entry.Note)

	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging stress: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("stress logged", "owner", entry.OwnerID, "level", entry.Level)
	}
	return nil
}

// List returns entries matching opts, oldest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing stress logs: %w", err)
	}
	return entries, nil
}

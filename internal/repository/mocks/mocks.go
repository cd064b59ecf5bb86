package mocks

import (
	"context"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/repository"
	"github.com/stretchr/testify/mock"
)

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, ownerID, id string) (*task.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StressLogRepository is a mock for stresslog.Repository.
type StressLogRepository struct {
	mock.Mock
}

func (m *StressLogRepository) Log(ctx context.Context, entry *stresslog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *StressLogRepository) List(ctx context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]stresslog.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StudentRepository is a mock for student.Repository.
type StudentRepository struct {
	mock.Mock
}

func (m *StudentRepository) Upsert(ctx context.Context, s *student.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *StudentRepository) Get(ctx context.Context, id string) (*student.Student, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*student.Student); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) List(ctx context.Context, opts student.ListOptions) ([]student.Student, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]student.Student); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, key repository.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *APIKeyRepository) Lookup(ctx context.Context, keyHash string) (*repository.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if k, ok := args.Get(0).(*repository.APIKey); ok {
		return k, args.Error(1)
	}
	return nil, args.Error(1)
}

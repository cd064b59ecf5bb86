package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/repository"
	"github.com/rpggio/calmmind/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newService(repo task.Repository) *task.Service {
	svc := task.NewService(repo, nil)
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	created, err := newService(repo).Create(ctx, task.CreateRequest{
		OwnerID:  "u1",
		Title:    "  Thesis draft ",
		Priority: "high",
		Tags:     []string{"thesis", " thesis", "", "writing"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Thesis draft", created.Title)
	require.Equal(t, task.PriorityHigh, created.Priority)
	require.Equal(t, task.StatusTodo, created.Status)
	require.Equal(t, []string{"thesis", "writing"}, created.Tags)
	require.Equal(t, fixedNow, created.CreatedAt)
	require.False(t, created.Completed)
	repo.AssertExpectations(t)
}

func TestTaskService_CreateCompleted(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TaskRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	created, err := newService(repo).Create(ctx, task.CreateRequest{
		OwnerID: "u1",
		Title:   "Quiz",
		Status:  task.StatusCompleted,
	})
	require.NoError(t, err)
	require.True(t, created.Completed)
	require.NotNil(t, created.CompletedAt)
	require.Equal(t, task.PriorityMedium, created.Priority)
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(&mocks.TaskRepository{})

	_, err := svc.Create(ctx, task.CreateRequest{Title: "x"})
	require.ErrorIs(t, err, task.ErrInvalidInput)
	_, err = svc.Create(ctx, task.CreateRequest{OwnerID: "u1", Title: "  "})
	require.ErrorIs(t, err, task.ErrInvalidInput)
	_, err = svc.Create(ctx, task.CreateRequest{OwnerID: "u1", Title: "x", Status: "archived"})
	require.ErrorIs(t, err, task.ErrInvalidInput)
}

func TestTaskService_CompleteLate(t *testing.T) {
	ctx := context.Background()
	due := fixedNow.Add(-24 * time.Hour)
	existing := &task.Task{ID: "t1", OwnerID: "u1", Title: "Essay", Status: task.StatusInProgress, DueDate: &due}

	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "u1", "t1").Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	done, err := newService(repo).Complete(ctx, "u1", "t1")
	require.NoError(t, err)
	require.True(t, done.Completed)
	require.Equal(t, task.StatusDoneLate, done.Status)
	require.Equal(t, fixedNow, *done.CompletedAt)
	require.Equal(t, task.StatusInProgress, existing.Status)
}

func TestTaskService_CompleteOnTime(t *testing.T) {
	ctx := context.Background()
	due := fixedNow.Add(time.Hour)

	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "u1", "t1").Return(&task.Task{ID: "t1", OwnerID: "u1", Title: "Lab", DueDate: &due}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	done, err := newService(repo).Complete(ctx, "u1", "t1")
	require.NoError(t, err)
	require.Equal(t, task.StatusCompleted, done.Status)
}

func TestTaskService_UpdateReopens(t *testing.T) {
	ctx := context.Background()
	completedAt := fixedNow.Add(-time.Hour)
	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "u1", "t1").Return(&task.Task{
		ID: "t1", OwnerID: "u1", Title: "Lab", Status: task.StatusCompleted, Completed: true, CompletedAt: &completedAt,
	}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	status := task.StatusInProgress
	title := "Lab report"
	updated, err := newService(repo).Update(ctx, task.UpdateRequest{OwnerID: "u1", ID: "t1", Status: &status, Title: &title, ClearDue: true})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Nil(t, updated.CompletedAt)
	require.Equal(t, task.StatusInProgress, updated.Status)
	require.Equal(t, "Lab report", updated.Title)
	require.Equal(t, fixedNow, updated.UpdatedAt)
}

func TestTaskService_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TaskRepository{}
	repo.On("Get", ctx, "u1", "nope").Return(nil, repository.ErrNotFound)
	repo.On("Delete", ctx, "u1", "nope").Return(repository.ErrNotFound)

	svc := newService(repo)
	_, err := svc.Get(ctx, "u1", "nope")
	require.ErrorIs(t, err, task.ErrTaskNotFound)
	_, err = svc.Complete(ctx, "u1", "nope")
	require.ErrorIs(t, err, task.ErrTaskNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "u1", "nope"), task.ErrTaskNotFound)
}

package student_test

import (
	"context"
	"testing"

	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/repository"
	"github.com/rpggio/calmmind/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStudentService_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Upsert", ctx, mock.AnythingOfType("*student.Student")).Return(nil)

	svc := student.NewService(repo, nil)
	st := &student.Student{ID: " s1 ", Name: " Ana ", Department: "CCS "}
	require.NoError(t, svc.Upsert(ctx, st))
	require.Equal(t, "s1", st.ID)
	require.Equal(t, "Ana", st.Name)
	require.Equal(t, "CCS", st.Department)
	repo.AssertExpectations(t)
}

func TestStudentService_UpsertValidation(t *testing.T) {
	ctx := context.Background()
	svc := student.NewService(&mocks.StudentRepository{}, nil)

	tooHigh := 7.0
	negative := -1.0
	require.ErrorIs(t, svc.Upsert(ctx, nil), student.ErrInvalidInput)
	require.ErrorIs(t, svc.Upsert(ctx, &student.Student{ID: "s1"}), student.ErrInvalidInput)
	require.ErrorIs(t, svc.Upsert(ctx, &student.Student{ID: "s1", Name: "A", StressLevel: &tooHigh}), student.ErrInvalidInput)
	require.ErrorIs(t, svc.Upsert(ctx, &student.Student{ID: "s1", Name: "A", StressPercentage: &negative}), student.ErrInvalidInput)
}

func TestStudentService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := student.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestStudentService_RecordLiveStress(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Get", ctx, "s1").Return(&student.Student{ID: "s1", Name: "Ana"}, nil)
	repo.On("Upsert", ctx, mock.MatchedBy(func(st *student.Student) bool {
		return st.StressPercentage != nil && *st.StressPercentage == 62.5 &&
			st.StressLevel != nil && *st.StressLevel == 3.5
	})).Return(nil)

	svc := student.NewService(repo, nil)
	require.NoError(t, svc.RecordLiveStress(ctx, "s1", 62.5))
	repo.AssertExpectations(t)
}

func TestStudentService_RecordLiveStressSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Get", ctx, "nobody").Return(nil, repository.ErrNotFound)

	svc := student.NewService(repo, nil)
	require.NoError(t, svc.RecordLiveStress(ctx, "nobody", 80))
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

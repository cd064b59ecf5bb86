package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/calmmind/internal/admin"
	"github.com/rpggio/calmmind/internal/assistant"
	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type taskStub struct {
	createFn   func(context.Context, task.CreateRequest) (*task.Task, error)
	updateFn   func(context.Context, task.UpdateRequest) (*task.Task, error)
	completeFn func(context.Context, string, string) (*task.Task, error)
	deleteFn   func(context.Context, string, string) error
	getFn      func(context.Context, string, string) (*task.Task, error)
	listFn     func(context.Context, task.ListOptions) ([]task.Task, error)
}

func (s taskStub) Create(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if s.createFn == nil {
		return &task.Task{ID: "t1", OwnerID: req.OwnerID, Title: req.Title}, nil
	}
	return s.createFn(ctx, req)
}
func (s taskStub) Update(ctx context.Context, req task.UpdateRequest) (*task.Task, error) {
	if s.updateFn == nil {
		return &task.Task{ID: req.ID, OwnerID: req.OwnerID}, nil
	}
	return s.updateFn(ctx, req)
}
func (s taskStub) Complete(ctx context.Context, ownerID, id string) (*task.Task, error) {
	if s.completeFn == nil {
		return &task.Task{ID: id, OwnerID: ownerID, Completed: true, Status: task.StatusCompleted}, nil
	}
	return s.completeFn(ctx, ownerID, id)
}
func (s taskStub) Delete(ctx context.Context, ownerID, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, ownerID, id)
}
func (s taskStub) Get(ctx context.Context, ownerID, id string) (*task.Task, error) {
	if s.getFn == nil {
		return &task.Task{ID: id, OwnerID: ownerID}, nil
	}
	return s.getFn(ctx, ownerID, id)
}
func (s taskStub) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, opts)
}

type logStub struct {
	logFn  func(context.Context, *stresslog.Entry) error
	listFn func(context.Context, stresslog.ListOptions) ([]stresslog.Entry, error)
}

func (s logStub) Log(ctx context.Context, entry *stresslog.Entry) error {
	if s.logFn == nil {
		entry.ID = "log1"
		return nil
	}
	return s.logFn(ctx, entry)
}
func (s logStub) List(ctx context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, opts)
}

type studentStub struct {
	upsertFn func(context.Context, *student.Student) error
}

func (s studentStub) Upsert(ctx context.Context, st *student.Student) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, st)
}

type dashboardStub struct {
	userFn    func(context.Context, string, dashboard.Range) (*dashboard.User, error)
	reportsFn func(context.Context, dashboard.Range) ([]admin.ReportRow, error)
}

func (d dashboardStub) Now() time.Time { return testNow }
func (d dashboardStub) UserDashboard(ctx context.Context, ownerID string, rng dashboard.Range) (*dashboard.User, error) {
	if d.userFn == nil {
		return &dashboard.User{Range: rng}, nil
	}
	return d.userFn(ctx, ownerID, rng)
}
func (d dashboardStub) AssistantContext(context.Context, string) (*assistant.Context, error) {
	c := assistant.Build(nil, testNow)
	return &c, nil
}
func (d dashboardStub) ScoreTask(t task.Task) dashboard.TaskScore {
	return dashboard.TaskScore{TaskID: t.ID, Display: 0.5, Daily: 2.1}
}
func (d dashboardStub) AdminOverview(context.Context, dashboard.Range) (*admin.Overview, error) {
	return &admin.Overview{}, nil
}
func (d dashboardStub) Reports(ctx context.Context, rng dashboard.Range) ([]admin.ReportRow, error) {
	if d.reportsFn == nil {
		return []admin.ReportRow{}, nil
	}
	return d.reportsFn(ctx, rng)
}
func (d dashboardStub) Departments(context.Context) ([]stress.Slice, error) {
	return []stress.Slice{}, nil
}

func newTestHandler(svc Services) *Handler {
	if svc.Tasks == nil {
		svc.Tasks = taskStub{}
	}
	if svc.StressLogs == nil {
		svc.StressLogs = logStub{}
	}
	if svc.Students == nil {
		svc.Students = studentStub{}
	}
	if svc.Dashboard == nil {
		svc.Dashboard = dashboardStub{}
	}
	return NewHandler(svc)
}

var user = Caller{TenantID: "u1"}

func TestHandler_AddTask(t *testing.T) {
	var got task.CreateRequest
	h := newTestHandler(Services{Tasks: taskStub{
		createFn: func(_ context.Context, req task.CreateRequest) (*task.Task, error) {
			got = req
			return &task.Task{ID: "t1", OwnerID: req.OwnerID, Title: req.Title, DueDate: req.DueDate}, nil
		},
	}})

	params := json.RawMessage(`{"title":"Essay","priority":"High","due_date":"2026-03-11","tags":["school"],"subtasks":[{"title":"outline","completed":true}]}`)
	result, err := h.Handle(context.Background(), user, "add_task", params)
	require.NoError(t, err)

	require.Equal(t, "u1", got.OwnerID)
	require.Equal(t, task.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	require.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *got.DueDate)
	require.Nil(t, got.StartDate)
	require.Equal(t, []task.Subtask{{Title: "outline", Completed: true}}, got.Subtasks)

	resp, ok := result.(TaskResponse)
	require.True(t, ok)
	require.Equal(t, "t1", resp.ID)
	require.Equal(t, 0.5, resp.Stress.Display)
}

func TestHandler_UpdateTask(t *testing.T) {
	var got task.UpdateRequest
	h := newTestHandler(Services{Tasks: taskStub{
		updateFn: func(_ context.Context, req task.UpdateRequest) (*task.Task, error) {
			got = req
			return &task.Task{ID: req.ID}, nil
		},
	}})

	_, err := h.Handle(context.Background(), user, "update_task",
		json.RawMessage(`{"id":"t1","priority":"low","status":"in_progress","clear_due":true}`))
	require.NoError(t, err)
	require.Equal(t, "t1", got.ID)
	require.Equal(t, "u1", got.OwnerID)
	require.NotNil(t, got.Priority)
	require.Equal(t, task.Priority("low"), *got.Priority)
	require.NotNil(t, got.Status)
	require.Equal(t, task.StatusInProgress, *got.Status)
	require.True(t, got.ClearDue)
	require.Nil(t, got.Title)
	require.Nil(t, got.Tags)
}

func TestHandler_TaskNotFound(t *testing.T) {
	h := newTestHandler(Services{Tasks: taskStub{
		completeFn: func(context.Context, string, string) (*task.Task, error) {
			return nil, task.ErrTaskNotFound
		},
	}})

	_, err := h.Handle(context.Background(), user, "complete_task", json.RawMessage(`{"id":"missing"}`))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "TASK_NOT_FOUND", apiErr.Code)
}

func TestHandler_GetTaskStress(t *testing.T) {
	h := newTestHandler(Services{})
	result, err := h.Handle(context.Background(), user, "get_task_stress", json.RawMessage(`{"id":"t9"}`))
	require.NoError(t, err)
	require.Equal(t, dashboard.TaskScore{TaskID: "t9", Display: 0.5, Daily: 2.1}, result)
}

func TestHandler_ListTasksFilters(t *testing.T) {
	var got task.ListOptions
	h := newTestHandler(Services{Tasks: taskStub{
		listFn: func(_ context.Context, opts task.ListOptions) ([]task.Task, error) {
			got = opts
			return []task.Task{{ID: "a"}, {ID: "b"}}, nil
		},
	}})

	result, err := h.Handle(context.Background(), user, "list_tasks", json.RawMessage(`{"due_from":"2026-03-01","limit":5}`))
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)
	require.NotNil(t, got.DueFrom)
	require.Nil(t, got.DueTo)
	require.Equal(t, 5, got.Limit)
	require.Len(t, result.([]TaskResponse), 2)
}

func TestHandler_BareEndDatesCoverWholeDay(t *testing.T) {
	var taskOpts task.ListOptions
	var logOpts stresslog.ListOptions
	h := newTestHandler(Services{
		Tasks: taskStub{listFn: func(_ context.Context, opts task.ListOptions) ([]task.Task, error) {
			taskOpts = opts
			return nil, nil
		}},
		StressLogs: logStub{listFn: func(_ context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error) {
			logOpts = opts
			return nil, nil
		}},
	})
	lastNano := time.Date(2026, 3, 12, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	_, err := h.Handle(context.Background(), user, "list_tasks", json.RawMessage(`{"due_from":"2026-03-12","due_to":"2026-03-12"}`))
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), *taskOpts.DueFrom)
	require.Equal(t, lastNano, *taskOpts.DueTo)

	_, err = h.Handle(context.Background(), user, "list_stress_logs", json.RawMessage(`{"from":"2026-03-12","to":"2026-03-12"}`))
	require.NoError(t, err)
	require.Equal(t, lastNano, *logOpts.To)

	_, err = h.Handle(context.Background(), user, "list_stress_logs", json.RawMessage(`{"to":"2026-03-12T18:00:00Z"}`))
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC), *logOpts.To)
}

func TestHandler_LogStress(t *testing.T) {
	var got stresslog.Entry
	h := newTestHandler(Services{StressLogs: logStub{
		logFn: func(_ context.Context, e *stresslog.Entry) error {
			e.ID = "log1"
			got = *e
			return nil
		},
	}})

	result, err := h.Handle(context.Background(), user, "log_stress",
		json.RawMessage(`{"level":3,"timestamp":"2026-03-09T08:00:00Z","note":"exams"}`))
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)
	require.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), got.Timestamp)

	resp := result.(StressLogResponse)
	require.Equal(t, "log1", resp.ID)
	require.Equal(t, 50.0, resp.Percent)
}

func TestHandler_LogStressInvalidLevel(t *testing.T) {
	h := newTestHandler(Services{StressLogs: logStub{
		logFn: func(context.Context, *stresslog.Entry) error { return stresslog.ErrInvalidLevel },
	}})

	_, err := h.Handle(context.Background(), user, "log_stress", json.RawMessage(`{"level":9}`))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "INVALID_LEVEL", apiErr.Code)
}

func TestHandler_DashboardRange(t *testing.T) {
	var got dashboard.Range
	h := newTestHandler(Services{Dashboard: dashboardStub{
		userFn: func(_ context.Context, owner string, rng dashboard.Range) (*dashboard.User, error) {
			require.Equal(t, "u1", owner)
			got = rng
			return &dashboard.User{Range: rng}, nil
		},
	}})

	_, err := h.Handle(context.Background(), user, "get_dashboard",
		json.RawMessage(`{"start":"2026-03-01","end":"2026-03-07","granularity":"weekly"}`))
	require.NoError(t, err)
	require.Equal(t, stress.Weekly, got.Granularity)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got.Start)
	require.Equal(t, 7, got.End.Day())
	require.Equal(t, 23, got.End.Hour())

	_, err = h.Handle(context.Background(), user, "get_dashboard", json.RawMessage(`{"granularity":"hourly"}`))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "INVALID_GRANULARITY", apiErr.Code)
}

func TestHandler_StressSummary(t *testing.T) {
	h := newTestHandler(Services{})
	result, err := h.Handle(context.Background(), user, "get_stress_summary", nil)
	require.NoError(t, err)
	c := result.(*assistant.Context)
	require.Equal(t, assistant.LevelLow, c.Label)
}

func TestHandler_AdminToolsRequireAdmin(t *testing.T) {
	called := false
	h := newTestHandler(Services{Dashboard: dashboardStub{
		reportsFn: func(context.Context, dashboard.Range) ([]admin.ReportRow, error) {
			called = true
			return []admin.ReportRow{{UserID: "u1"}}, nil
		},
	}})

	for _, method := range []string{"get_admin_overview", "get_reports", "get_department_distribution", "upsert_student"} {
		_, err := h.Handle(context.Background(), user, method, nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), method)
		require.Equal(t, "FORBIDDEN", apiErr.Code, method)
	}
	require.False(t, called)

	result, err := h.Handle(context.Background(), Caller{TenantID: "boss", Admin: true}, "get_reports", nil)
	require.NoError(t, err)
	require.True(t, called)
	require.Len(t, result.([]admin.ReportRow), 1)
}

func TestHandler_UpsertStudent(t *testing.T) {
	var got *student.Student
	h := newTestHandler(Services{Students: studentStub{
		upsertFn: func(_ context.Context, st *student.Student) error {
			got = st
			return nil
		},
	}})

	_, err := h.Handle(context.Background(), Caller{TenantID: "boss", Admin: true}, "upsert_student",
		json.RawMessage(`{"id":"u1","name":"Ana","department":"CS","stress_level":4}`))
	require.NoError(t, err)
	require.Equal(t, "CS", got.Department)
	require.NotNil(t, got.StressLevel)
	require.Equal(t, 4.0, *got.StressLevel)
	require.Nil(t, got.StressPercentage)
}

func TestHandler_InvalidParams(t *testing.T) {
	h := newTestHandler(Services{})
	_, err := h.Handle(context.Background(), user, "add_task", json.RawMessage(`{"title":1}`))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "INVALID_PARAMS", apiErr.Code)
}

func TestHandler_UnknownMethod(t *testing.T) {
	h := newTestHandler(Services{})
	_, err := h.Handle(context.Background(), user, "create_project", nil)
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestToolCatalogIsHandled(t *testing.T) {
	h := newTestHandler(Services{})
	boss := Caller{TenantID: "boss", Admin: true}
	seen := map[string]bool{}
	for _, tool := range buildToolCatalog() {
		require.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true
		require.Equal(t, "object", tool.InputSchema["type"], tool.Name)

		params := json.RawMessage(`{"id":"x","title":"x","name":"x","level":2}`)
		_, err := h.Handle(context.Background(), boss, tool.Name, params)
		require.NotErrorIs(t, err, ErrUnknownMethod, tool.Name)
	}
}

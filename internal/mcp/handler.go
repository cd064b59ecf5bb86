package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/calmmind/internal/admin"
	"github.com/rpggio/calmmind/internal/assistant"
	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

var (
	// ErrUnknownMethod is returned for tool names the handler doesn't serve.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrForbidden is returned when a non-admin caller invokes a cross-user tool.
	ErrForbidden = errors.New("forbidden: admin access required")
	// ErrInvalidParams is returned when tool arguments can't be decoded.
	ErrInvalidParams = errors.New("invalid params")
)

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Update(ctx context.Context, req task.UpdateRequest) (*task.Task, error)
	Complete(ctx context.Context, ownerID, id string) (*task.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (*task.Task, error)
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
}

// StressLogService defines stress log operations needed by MCP.
type StressLogService interface {
	Log(ctx context.Context, entry *stresslog.Entry) error
	List(ctx context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error)
}

// StudentService defines student profile operations needed by MCP.
type StudentService interface {
	Upsert(ctx context.Context, st *student.Student) error
}

// DashboardService defines the read-side aggregations needed by MCP.
type DashboardService interface {
	Now() time.Time
	UserDashboard(ctx context.Context, ownerID string, rng dashboard.Range) (*dashboard.User, error)
	AssistantContext(ctx context.Context, ownerID string) (*assistant.Context, error)
	ScoreTask(t task.Task) dashboard.TaskScore
	AdminOverview(ctx context.Context, rng dashboard.Range) (*admin.Overview, error)
	Reports(ctx context.Context, rng dashboard.Range) ([]admin.ReportRow, error)
	Departments(ctx context.Context) ([]stress.Slice, error)
}

// Caller identifies who is invoking a tool.
type Caller struct {
	TenantID  string
	SessionID string
	Admin     bool
}

// Handler dispatches MCP commands.
type Handler struct {
	tasks     TaskService
	logs      StressLogService
	students  StudentService
	dashboard DashboardService
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	return &Handler{
		tasks:     svc.Tasks,
		logs:      svc.StressLogs,
		students:  svc.Students,
		dashboard: svc.Dashboard,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, caller Caller, method string, params json.RawMessage) (any, error) {
	if adminMethods[method] && !caller.Admin {
		return nil, mapError(ErrForbidden)
	}
	owner := caller.TenantID
	now := h.dashboard.Now()

	switch method {
	case "add_task":
		var req AddTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Create(ctx, task.CreateRequest{
			OwnerID:   owner,
			Title:     req.Title,
			Priority:  task.Priority(req.Priority),
			Status:    task.Status(req.Status),
			StartDate: task.ParseDate(req.StartDate, now.Location()),
			DueDate:   task.ParseDate(req.DueDate, now.Location()),
			Tags:      req.Tags,
			Subtasks:  subtasks(req.Subtasks),
		})
		if err != nil {
			return nil, mapError(err)
		}
		return h.taskResponse(*t), nil
	case "update_task":
		var req UpdateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		update := task.UpdateRequest{
			OwnerID:   owner,
			ID:        req.ID,
			Title:     req.Title,
			StartDate: task.ParseDate(req.StartDate, now.Location()),
			DueDate:   task.ParseDate(req.DueDate, now.Location()),
			ClearDue:  req.ClearDue,
			Tags:      req.Tags,
			Subtasks:  subtasks(req.Subtasks),
		}
		if req.Priority != nil {
			p := task.Priority(*req.Priority)
			update.Priority = &p
		}
		if req.Status != nil {
			st := task.Status(*req.Status)
			update.Status = &st
		}
		t, err := h.tasks.Update(ctx, update)
		if err != nil {
			return nil, mapError(err)
		}
		return h.taskResponse(*t), nil
	case "complete_task":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Complete(ctx, owner, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return h.taskResponse(*t), nil
	case "delete_task":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.tasks.Delete(ctx, owner, req.ID); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "deleted"}, nil
	case "get_task", "get_task_stress":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Get(ctx, owner, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		if method == "get_task_stress" {
			return h.dashboard.ScoreTask(*t), nil
		}
		return h.taskResponse(*t), nil
	case "list_tasks":
		var req ListTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		tasks, err := h.tasks.List(ctx, task.ListOptions{
			OwnerID: owner,
			DueFrom: task.ParseDate(req.DueFrom, now.Location()),
			DueTo:   task.ParseEndDate(req.DueTo, now.Location()),
			Limit:   req.Limit,
			Offset:  req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			resp = append(resp, h.taskResponse(t))
		}
		return resp, nil
	case "log_stress":
		var req LogStressParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entry := &stresslog.Entry{
			OwnerID: owner,
			Level:   req.Level,
			Tags:    req.Tags,
			Note:    req.Note,
		}
		if ts := task.ParseDate(req.Timestamp, now.Location()); ts != nil {
			entry.Timestamp = *ts
		}
		if err := h.logs.Log(ctx, entry); err != nil {
			return nil, mapError(err)
		}
		return stressLogResponse(*entry), nil
	case "list_stress_logs":
		var req ListStressLogsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.logs.List(ctx, stresslog.ListOptions{
			OwnerID: owner,
			From:    task.ParseDate(req.From, now.Location()),
			To:      task.ParseEndDate(req.To, now.Location()),
			Limit:   req.Limit,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]StressLogResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, stressLogResponse(e))
		}
		return resp, nil
	case "get_dashboard":
		rng, err := decodeRange(params, now)
		if err != nil {
			return nil, err
		}
		d, err := h.dashboard.UserDashboard(ctx, owner, rng)
		if err != nil {
			return nil, mapError(err)
		}
		return d, nil
	case "get_stress_summary":
		c, err := h.dashboard.AssistantContext(ctx, owner)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "get_admin_overview":
		rng, err := decodeRange(params, now)
		if err != nil {
			return nil, err
		}
		o, err := h.dashboard.AdminOverview(ctx, rng)
		if err != nil {
			return nil, mapError(err)
		}
		return o, nil
	case "get_reports":
		rng, err := decodeRange(params, now)
		if err != nil {
			return nil, err
		}
		rows, err := h.dashboard.Reports(ctx, rng)
		if err != nil {
			return nil, mapError(err)
		}
		return rows, nil
	case "get_department_distribution":
		slices, err := h.dashboard.Departments(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return slices, nil
	case "upsert_student":
		var req UpsertStudentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		st := &student.Student{
			ID:               req.ID,
			Name:             req.Name,
			Department:       req.Department,
			YearLevel:        req.YearLevel,
			StudentNumber:    req.StudentNumber,
			StressPercentage: req.StressPercentage,
			StressLevel:      req.StressLevel,
		}
		if err := h.students.Upsert(ctx, st); err != nil {
			return nil, mapError(err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// adminMethods are the cross-user tools.
var adminMethods = map[string]bool{
	"get_admin_overview":          true,
	"get_reports":                 true,
	"get_department_distribution": true,
	"upsert_student":              true,
}

func (h *Handler) taskResponse(t task.Task) TaskResponse {
	return TaskResponse{Task: t, Stress: h.dashboard.ScoreTask(t)}
}

func stressLogResponse(e stresslog.Entry) StressLogResponse {
	return StressLogResponse{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Level:     e.Level,
		Percent:   stresslog.LevelToPercent(float64(e.Level)),
		Tags:      e.Tags,
		Note:      e.Note,
	}
}

func subtasks(in []SubtaskParams) []task.Subtask {
	if len(in) == 0 {
		return nil
	}
	out := make([]task.Subtask, 0, len(in))
	for _, st := range in {
		out = append(out, task.Subtask{Title: st.Title, Completed: st.Completed})
	}
	return out
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}
	return nil
}

func decodeRange(params json.RawMessage, now time.Time) (dashboard.Range, error) {
	var req RangeParams
	if err := decodeParams(params, &req); err != nil {
		return dashboard.Range{}, err
	}
	rng, err := dashboard.ParseRange(req.Start, req.End, req.Granularity, now)
	if err != nil {
		return dashboard.Range{}, mapError(err)
	}
	return rng, nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

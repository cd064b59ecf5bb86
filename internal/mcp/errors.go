package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil
// and are passed through unchanged by callers.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Call list_tasks to find the task ID"}
	case errors.Is(err, task.ErrInvalidInput):
		return &APIError{Code: "INVALID_TASK", Message: "invalid task input", RecoveryHint: "Provide a non-empty title and a known status"}
	case errors.Is(err, stresslog.ErrInvalidLevel):
		return &APIError{Code: "INVALID_LEVEL", Message: "stress level must be between 1 and 5"}
	case errors.Is(err, stresslog.ErrInvalidInput):
		return &APIError{Code: "INVALID_STRESS_LOG", Message: "invalid stress log input"}
	case errors.Is(err, student.ErrStudentNotFound):
		return &APIError{Code: "STUDENT_NOT_FOUND", Message: "student not found"}
	case errors.Is(err, student.ErrInvalidInput):
		return &APIError{Code: "INVALID_STUDENT", Message: "invalid student input", RecoveryHint: "Provide id and name; level 1-5, percentage 0-100"}
	case errors.Is(err, stress.ErrUnknownGranularity):
		return &APIError{Code: "INVALID_GRANULARITY", Message: err.Error(), RecoveryHint: "Use daily, weekly, monthly or yearly"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	case errors.Is(err, ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "admin access required", RecoveryHint: "Use an admin API key"}
	default:
		return nil
	}
}

package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	ReadOnly    bool
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

var (
	dateProp     = prop("string", "Date as YYYY-MM-DD or an RFC3339 timestamp")
	tagsProp     = map[string]any{"type": "array", "description": "Free-form tags", "items": map[string]any{"type": "string"}}
	subtasksProp = map[string]any{
		"type":        "array",
		"description": "Checklist items; completion drives the progress factor",
		"items": object(map[string]any{
			"title":     prop("string", "Subtask title"),
			"completed": prop("boolean", "Whether the subtask is done"),
		}, "title"),
	}
	priorityProp = enumProp("Task priority (defaults to Medium)", "Low", "Medium", "High")
	statusProp   = enumProp("Stored status", "todo", "in_progress", "missing", "completed", "done_late")
	idProp       = prop("string", "Task ID")
	rangeSchema  = object(map[string]any{
		"start":       prop("string", "Range start date (defaults to six days before end)"),
		"end":         prop("string", "Range end date (defaults to the end of today)"),
		"granularity": enumProp("Bucket size (defaults to daily)", "daily", "weekly", "monthly", "yearly"),
	})
)

// buildToolCatalog returns all available MCP tools.
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Tasks
		{
			Name:        "add_task",
			Description: "Create a task; the response includes its current stress scores",
			InputSchema: object(map[string]any{
				"title":      prop("string", "Task title"),
				"priority":   priorityProp,
				"status":     statusProp,
				"start_date": dateProp,
				"due_date":   dateProp,
				"tags":       tagsProp,
				"subtasks":   subtasksProp,
			}, "title"),
		},
		{
			Name:        "update_task",
			Description: "Update fields of a task; omitted fields are left unchanged",
			InputSchema: object(map[string]any{
				"id":         idProp,
				"title":      prop("string", "New title"),
				"priority":   priorityProp,
				"status":     statusProp,
				"start_date": dateProp,
				"due_date":   dateProp,
				"clear_due":  prop("boolean", "Remove the due date"),
				"tags":       tagsProp,
				"subtasks":   subtasksProp,
			}, "id"),
		},
		{
			Name:        "complete_task",
			Description: "Mark a task finished; tasks finished after their due date become done_late",
			InputSchema: object(map[string]any{"id": idProp}, "id"),
		},
		{
			Name:        "delete_task",
			Description: "Delete a task",
			InputSchema: object(map[string]any{"id": idProp}, "id"),
		},
		{
			Name:        "get_task",
			Description: "Get a task with its current stress scores",
			InputSchema: object(map[string]any{"id": idProp}, "id"),
			ReadOnly:    true,
		},
		{
			Name:        "list_tasks",
			Description: "List tasks ordered by due date, optionally bounded by a due date window",
			InputSchema: object(map[string]any{
				"due_from": dateProp,
				"due_to":   dateProp,
				"limit":    prop("integer", "Maximum number of results"),
				"offset":   prop("integer", "Offset for pagination"),
			}),
			ReadOnly: true,
		},
		{
			Name:        "get_task_stress",
			Description: "Score a single task under the display (0-1) and daily (weight-based) profiles",
			InputSchema: object(map[string]any{"id": idProp}, "id"),
			ReadOnly:    true,
		},

		// Stress logs
		{
			Name:        "log_stress",
			Description: "Record a self-reported stress level from 1 (calm) to 5 (overwhelmed)",
			InputSchema: object(map[string]any{
				"level":     map[string]any{"type": "integer", "description": "Stress level", "minimum": 1, "maximum": 5},
				"timestamp": prop("string", "When the stress was felt (defaults to now)"),
				"tags":      tagsProp,
				"note":      prop("string", "Optional note"),
			}, "level"),
		},
		{
			Name:        "list_stress_logs",
			Description: "List self-reported stress levels, oldest first",
			InputSchema: object(map[string]any{
				"from":  dateProp,
				"to":    dateProp,
				"limit": prop("integer", "Maximum number of results"),
			}),
			ReadOnly: true,
		},

		// Dashboards
		{
			Name:        "get_dashboard",
			Description: "Status counts, priority and tag distributions, daily stress, per-period series and trend for the caller",
			InputSchema: rangeSchema,
			ReadOnly:    true,
		},
		{
			Name:        "get_stress_summary",
			Description: "Current stress percent and label, upcoming deadlines, top stressors and recommendations",
			InputSchema: object(map[string]any{}),
			ReadOnly:    true,
		},

		// Admin
		{
			Name:        "get_admin_overview",
			Description: "Cross-user status counts, stress and workload series, stressor distribution and trend (admin only)",
			InputSchema: rangeSchema,
			ReadOnly:    true,
		},
		{
			Name:        "get_reports",
			Description: "Per-student report rows with task totals, stress and on-time/overdue rates (admin only)",
			InputSchema: rangeSchema,
			ReadOnly:    true,
		},
		{
			Name:        "get_department_distribution",
			Description: "Student counts per department (admin only)",
			InputSchema: object(map[string]any{}),
			ReadOnly:    true,
		},
		{
			Name:        "upsert_student",
			Description: "Create or replace a student profile used in reports (admin only)",
			InputSchema: object(map[string]any{
				"id":                prop("string", "User ID the student's tasks are owned by"),
				"name":              prop("string", "Display name"),
				"department":        prop("string", "Department"),
				"year_level":        prop("string", "Year level"),
				"student_number":    prop("string", "Student number"),
				"stress_percentage": prop("number", "Live stress percent 0-100"),
				"stress_level":      prop("number", "Live stress level 1-5"),
			}, "id", "name"),
		},
	}
}

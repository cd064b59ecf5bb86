package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/repository"
)

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	id, owner_id, title, priority, status, completed,
	start_date, due_date, completed_at, tags, subtasks, created_at, updated_at
`

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	tags, err := encodeJSON(t.Tags)
	if err != nil {
		return err
	}
	subtasks, err := encodeJSON(t.Subtasks)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Priority,
		t.Status,
		t.Completed,
		utcPtr(t.StartDate),
		utcPtr(t.DueDate),
		utcPtr(t.CompletedAt),
		tags,
		subtasks,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get retrieves a task by owner and ID
func (r *TaskRepository) Get(ctx context.Context, ownerID, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Update replaces the mutable fields of a task
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	tags, err := encodeJSON(t.Tags)
	if err != nil {
		return err
	}
	subtasks, err := encodeJSON(t.Subtasks)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = ?, priority = ?, status = ?, completed = ?,
		    start_date = ?, due_date = ?, completed_at = ?,
		    tags = ?, subtasks = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Priority,
		t.Status,
		t.Completed,
		utcPtr(t.StartDate),
		utcPtr(t.DueDate),
		utcPtr(t.CompletedAt),
		tags,
		subtasks,
		t.UpdatedAt.UTC(),
		t.ID,
		t.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

// List returns tasks matching the given filters, ordered by due date with
// undated tasks last
func (r *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	args := []interface{}{}
	conditions := []string{}

	if opts.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, opts.OwnerID)
	}
	if opts.DueFrom != nil {
		conditions = append(conditions, "due_date >= ?")
		args = append(args, opts.DueFrom.UTC())
	}
	if opts.DueTo != nil {
		conditions = append(conditions, "due_date <= ?")
		args = append(args, opts.DueTo.UTC())
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY due_date IS NULL, due_date ASC, created_at ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var startDate, dueDate, completedAt sql.NullTime
	var tags, subtasks string
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Priority,
		&t.Status,
		&t.Completed,
		&startDate,
		&dueDate,
		&completedAt,
		&tags,
		&subtasks,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.StartDate = nullTimePtr(startDate)
	t.DueDate = nullTimePtr(dueDate)
	t.CompletedAt = nullTimePtr(completedAt)
	if err := decodeJSON(tags, &t.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSON(subtasks, &t.Subtasks); err != nil {
		return nil, err
	}
	return &t, nil
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func utcPtr(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

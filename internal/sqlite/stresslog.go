package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
)

// StressLogRepository implements stresslog.Repository for SQLite
type StressLogRepository struct {
	db *DB
}

// NewStressLogRepository creates a new StressLogRepository
func NewStressLogRepository(db *DB) *StressLogRepository {
	return &StressLogRepository{db: db}
}

// Log inserts a new stress log entry
func (r *StressLogRepository) Log(ctx context.Context, entry *stresslog.Entry) error {
	tags, err := encodeJSON(entry.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO stress_logs (id, owner_id, logged_at, level, tags, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.Timestamp.UTC(),
		entry.Level,
		tags,
		entry.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to log stress: %w", err)
	}
	return nil
}

// List returns stress log entries matching the given filters, oldest first
func (r *StressLogRepository) List(ctx context.Context, opts stresslog.ListOptions) ([]stresslog.Entry, error) {
	query := `SELECT id, owner_id, logged_at, level, tags, note FROM stress_logs`

	args := []interface{}{}
	conditions := []string{}

	if opts.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, opts.OwnerID)
	}
	if opts.From != nil {
		conditions = append(conditions, "logged_at >= ?")
		args = append(args, opts.From.UTC())
	}
	if opts.To != nil {
		conditions = append(conditions, "logged_at <= ?")
		args = append(args, opts.To.UTC())
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY logged_at ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stress logs: %w", err)
	}
	defer rows.Close()

	var entries []stresslog.Entry
	for rows.Next() {
		var entry stresslog.Entry
		var tags string
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Timestamp,
			&entry.Level,
			&tags,
			&entry.Note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stress log: %w", err)
		}
		if err := decodeJSON(tags, &entry.Tags); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stress log rows: %w", err)
	}

	return entries, nil
}

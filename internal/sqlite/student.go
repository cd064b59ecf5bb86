package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/repository"
)

// StudentRepository implements student.Repository for SQLite
type StudentRepository struct {
	db *DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Upsert inserts a student or replaces the existing row with the same ID
func (r *StudentRepository) Upsert(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (id, name, department, year_level, student_number, stress_percentage, stress_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			year_level = excluded.year_level,
			student_number = excluded.student_number,
			stress_percentage = excluded.stress_percentage,
			stress_level = excluded.stress_level
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Department,
		s.YearLevel,
		s.StudentNumber,
		s.StressPercentage,
		s.StressLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert student: %w", err)
	}
	return nil
}

// Get retrieves a student by ID
func (r *StudentRepository) Get(ctx context.Context, id string) (*student.Student, error) {
	query := `
		SELECT id, name, department, year_level, student_number, stress_percentage, stress_level
		FROM students
		WHERE id = ?
	`
	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// List returns students ordered by name
func (r *StudentRepository) List(ctx context.Context, opts student.ListOptions) ([]student.Student, error) {
	query := `
		SELECT id, name, department, year_level, student_number, stress_percentage, stress_level
		FROM students
	`
	args := []interface{}{}
	if opts.Department != "" {
		query += " WHERE department = ?"
		args = append(args, opts.Department)
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

func scanStudent(row rowScanner) (*student.Student, error) {
	var s student.Student
	var pct, level sql.NullFloat64
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Department,
		&s.YearLevel,
		&s.StudentNumber,
		&pct,
		&level,
	); err != nil {
		return nil, err
	}
	if pct.Valid {
		s.StressPercentage = &pct.Float64
	}
	if level.Valid {
		s.StressLevel = &level.Float64
	}
	return &s, nil
}

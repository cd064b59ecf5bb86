package student

import "context"

// Repository provides persistence for student profiles.
type Repository interface {
	Upsert(ctx context.Context, s *Student) error
	Get(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, opts ListOptions) ([]Student, error)
}

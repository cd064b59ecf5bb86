package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, ownerID, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, opts ListOptions) ([]Task, error)
}

package repository

import (
	"context"
	"time"
)

// APIKey is a hashed bearer credential mapped to the user it authenticates.
type APIKey struct {
	KeyHash   string
	UserID    string
	Admin     bool
	CreatedAt time.Time
}

// APIKeyRepository resolves and stores API keys. Task, stress log and
// student persistence interfaces live next to their domain services.
type APIKeyRepository interface {
	Create(ctx context.Context, key APIKey) error
	Lookup(ctx context.Context, keyHash string) (*APIKey, error)
}

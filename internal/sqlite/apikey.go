package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/calmmind/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a hashed key
func (r *APIKeyRepository) Create(ctx context.Context, key repository.APIKey) error {
	createdAt := key.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		key.KeyHash, key.UserID, key.Admin, createdAt.UTC())
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Lookup resolves a key hash and records its use
func (r *APIKeyRepository) Lookup(ctx context.Context, keyHash string) (*repository.APIKey, error) {
	var key repository.APIKey
	err := r.db.QueryRowContext(ctx,
		`SELECT key_hash, user_id, is_admin, created_at FROM api_keys WHERE key_hash = ?`,
		keyHash).Scan(&key.KeyHash, &key.UserID, &key.Admin, &key.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`,
		time.Now().UTC(), keyHash); err != nil {
		return nil, fmt.Errorf("failed to touch api key: %w", err)
	}

	return &key, nil
}

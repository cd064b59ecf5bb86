package transport

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/calmmind/internal/mcp"
	"github.com/rpggio/calmmind/internal/repository"
)

const tokenBytes = 32

// KeyResolver authenticates bearer tokens against stored key hashes.
type KeyResolver struct {
	keys    repository.APIKeyRepository
	isAdmin func(userID string) bool
}

// NewKeyResolver creates a resolver. isAdmin may be nil; a key flagged
// admin grants admin rights either way.
func NewKeyResolver(keys repository.APIKeyRepository, isAdmin func(userID string) bool) *KeyResolver {
	return &KeyResolver{keys: keys, isAdmin: isAdmin}
}

// Resolve implements mcp.Resolver.
func (r *KeyResolver) Resolve(ctx context.Context, token string) (mcp.Caller, error) {
	key, err := r.keys.Lookup(ctx, HashToken(token))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && key.UserID == "") {
		return mcp.Caller{}, ErrUnauthorized
	}
	if err != nil {
		return mcp.Caller{}, err
	}
	admin := key.Admin
	if !admin && r.isAdmin != nil {
		admin = r.isAdmin(key.UserID)
	}
	return mcp.Caller{TenantID: key.UserID, Admin: admin}, nil
}

// HashToken is the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssueKey generates a random token for userID and stores its hash. The
// plain token is returned once and never persisted.
func IssueKey(ctx context.Context, keys repository.APIKeyRepository, userID string, admin bool) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user is required", repository.ErrInvalidInput)
	}
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)
	if err := keys.Create(ctx, repository.APIKey{
		KeyHash: HashToken(token),
		UserID:  userID,
		Admin:   admin,
	}); err != nil {
		return "", err
	}
	return token, nil
}

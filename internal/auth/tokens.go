package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/avecor-crm/avecor-crm/internal/shared"
)

const tokenKeyPrefix = "avecor:token:"

// TokenStore issues and verifies opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (ts *TokenStore) TTL() time.Duration {
	return ts.ttl
}

// Issue creates a new token carrying the caller identity.
func (ts *TokenStore) Issue(ctx context.Context, id shared.Identity) (string, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("auth: marshal identity: %w", err)
	}
	token := uuid.NewString()
	if err := ts.client.Set(ctx, tokenKeyPrefix+token, payload, ts.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Verify resolves a token back into the identity it was issued for.
// Expired, revoked and unknown tokens are indistinguishable to the caller.
func (ts *TokenStore) Verify(ctx context.Context, token string) (shared.Identity, error) {
	if token == "" {
		return shared.Identity{}, ErrInvalidToken
	}
	payload, err := ts.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.Identity{}, ErrInvalidToken
		}
		return shared.Identity{}, fmt.Errorf("auth: load token: %w", err)
	}
	var id shared.Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return shared.Identity{}, ErrInvalidToken
	}
	return id, nil
}

// Revoke invalidates a token immediately.
func (ts *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := ts.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// ErrInvalidToken is returned for missing, expired or revoked tokens.
var ErrInvalidToken = errors.New("token inválido o expirado")

package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenManager issues and resolves opaque bearer tokens backed by Redis.
type TokenManager struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type tokenPayload struct {
	UserID  int64  `json:"user_id"`
	LoginID string `json:"login_id"`
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, prefix string, ttl time.Duration) *TokenManager {
	if prefix == "" {
		prefix = "stockmaster:token"
	}
	return &TokenManager{client: client, prefix: prefix, ttl: ttl}
}

// TTL reports the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue creates a new token for the actor and stores it with the configured TTL.
func (tm *TokenManager) Issue(ctx context.Context, actor Actor) (string, error) {
	if tm == nil || tm.client == nil {
		return "", errors.New("token manager not initialised")
	}
	token := uuid.NewString()
	payload, err := json.Marshal(tokenPayload{UserID: actor.ID, LoginID: actor.LoginID})
	if err != nil {
		return "", err
	}
	if err := tm.client.Set(ctx, tm.key(token), payload, tm.ttl).Err(); err != nil {
		return "", fmt.Errorf("shared/tokens: store: %w", err)
	}
	return token, nil
}

// Resolve looks up the actor behind a token. Unknown or expired tokens return
// ErrTokenInvalid.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (Actor, error) {
	if tm == nil || tm.client == nil {
		return Actor{}, errors.New("token manager not initialised")
	}
	if token == "" {
		return Actor{}, ErrTokenInvalid
	}
	raw, err := tm.client.Get(ctx, tm.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Actor{}, ErrTokenInvalid
		}
		return Actor{}, fmt.Errorf("shared/tokens: load: %w", err)
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Actor{}, ErrTokenInvalid
	}
	return Actor{ID: payload.UserID, LoginID: payload.LoginID}, nil
}

// Revoke deletes a token, used on logout.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if tm == nil || tm.client == nil {
		return nil
	}
	if token == "" {
		return nil
	}
	if err := tm.client.Del(ctx, tm.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("shared/tokens: revoke: %w", err)
	}
	return nil
}

func (tm *TokenManager) key(token string) string {
	return tm.prefix + ":" + token
}

// Package cache provides Redis-backed read-through caches for repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dispatch-hub/backend/internal/application/adapter"
	"github.com/dispatch-hub/backend/internal/domain/entity"
	domainerror "github.com/dispatch-hub/backend/internal/domain/error"
)

const sessionKeyPrefix = "session:"

// DefaultSessionTTL bounds how long a cached session may be served.
const DefaultSessionTTL = 10 * time.Minute

type cachedSession struct {
	UserID  int  `json:"user_id,omitempty"`
	IsValid bool `json:"is_valid,omitempty"`
	Revoked bool `json:"revoked,omitempty"`
}

// sessionCache wraps a SessionRepository with a Redis read-through cache.
// Only found sessions are cached; lookups of unknown tokens always reach the store.
// Deleted sessions leave a revoked marker for one TTL so an in-flight fill
// cannot resurrect them.
type sessionCache struct {
	next  adapter.SessionRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionCache decorates next with a Redis cache. A non-positive ttl uses DefaultSessionTTL.
func NewSessionCache(next adapter.SessionRepository, client *redis.Client, ttl time.Duration) adapter.SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionCache{
		next:  next,
		redis: client,
		ttl:   ttl,
	}
}

func (c *sessionCache) key(token string) string {
	return sessionKeyPrefix + token
}

// CreateSession writes through to the underlying store.
func (c *sessionCache) CreateSession(ctx context.Context, userID int, token string) error {
	return c.next.CreateSession(ctx, userID, token)
}

// DeleteSession removes the session from the store, then marks it revoked in the cache.
// A cache failure is returned so a logged-out token is never served from cache.
func (c *sessionCache) DeleteSession(ctx context.Context, token string) error {
	if err := c.next.DeleteSession(ctx, token); err != nil {
		return err
	}
	revoked, err := json.Marshal(cachedSession{Revoked: true})
	if err != nil {
		return fmt.Errorf("failed to encode revoked session: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(token), revoked, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke cached session: %w", err)
	}
	return nil
}

// FindSessionByToken serves from Redis when possible and populates it on a miss.
// Redis read and write failures degrade to the underlying store.
func (c *sessionCache) FindSessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	data, err := c.redis.Get(ctx, c.key(token)).Bytes()
	switch {
	case err == nil:
		var cached cachedSession
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			if cached.Revoked {
				return nil, domainerror.ErrSessionNotFound
			}
			return &entity.Session{Token: token, UserID: cached.UserID, IsValid: cached.IsValid}, nil
		}
		slog.WarnContext(ctx, "Discarding malformed cached session")
	case errors.Is(err, redis.Nil):
	default:
		slog.WarnContext(ctx, "Session cache read failed", "error", err)
	}

	session, err := c.next.FindSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(cachedSession{UserID: session.UserID, IsValid: session.IsValid})
	if err != nil {
		return session, nil
	}
	// SetNX never overwrites a revoked marker written while the store was read
	if err := c.redis.SetNX(ctx, c.key(token), encoded, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Session cache write failed", "error", err)
	}
	return session, nil
}

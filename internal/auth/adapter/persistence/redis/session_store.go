package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booking-system/internal/auth/adapter/security"
	"booking-system/internal/auth/domain/model"
	apperrors "booking-system/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore implements the SessionStore interface using Redis,
// one JSON-encoded value per session with the TTL enforced by Redis itself.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Create allocates a new session record and persists it with its TTL.
func (s *RedisSessionStore) Create(ctx context.Context, userID, displayName string) (*model.Session, error) {
	id, err := security.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &model.Session{
		ID:          id,
		UserID:      userID,
		DisplayName: displayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return nil, apperrors.NewInfrastructureError("failed to persist session").
			WithComponent("redis.session_store").WithCause(err)
	}

	return session, nil
}

// Get resolves a session by its opaque identifier. Redis expires the key at
// the TTL boundary; the explicit expiry check covers clock edges in between.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.IsExpired(s.now()) {
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return nil, apperrors.ErrSessionNotFound
	}

	return &session, nil
}

// Destroy removes a session. Removing an absent session is a no-op.
func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return apperrors.NewInfrastructureError("failed to destroy session").
			WithComponent("redis.session_store").WithCause(err)
	}
	return nil
}

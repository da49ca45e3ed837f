package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/repository"
)

type sessionRepository struct {
	client    *redislib.Client
	prefix    string
	retention time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. Keys outlive
// ExpiresAt by retention so that validation can still tell an expired session
// apart from an unknown one; Redis evicts them afterwards.
func NewSessionRepository(client *redislib.Client, retention time.Duration) repository.SessionRepository {
	if retention < 0 {
		retention = 0
	}
	return &sessionRepository{
		client:    client,
		prefix:    "session:",
		retention: retention,
	}
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	result, err := r.client.Get(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Put(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// The lifetime is measured on the session's own clock so that callers
	// with an injected clock get the same TTL as wall-clock callers.
	lifetime := session.ExpiresAt.Sub(session.CreatedAt)
	if session.CreatedAt.IsZero() {
		lifetime = time.Until(session.ExpiresAt)
	}
	ttl := lifetime + r.retention
	if ttl <= 0 {
		return domain.NewError(domain.ErrCodeInvalid, "session already expired")
	}

	created, err := r.client.SetNX(ctx, r.key(session.Token), payload, ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrSessionConflict
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *sessionRepository) key(token string) string {
	return fmt.Sprintf("%s%s", r.prefix, token)
}

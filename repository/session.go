package repository

import (
	"context"
	"time"

	"github.com/fastygo/sessionauth/domain"
)

// SessionRepository is the shared keyed store owning every Session record.
// Get returns domain.ErrSessionNotFound when the token is absent, Put returns
// domain.ErrSessionConflict when it already exists, and Delete is idempotent.
type SessionRepository interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionSweeper is implemented by stores that support an active expiry sweep.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

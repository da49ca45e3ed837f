package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/repository"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionRepository stores sessions in the auth_sessions table.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository instantiates a Postgres-backed session repository.
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Put(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO auth_sessions (token, user_id, created_at, expires_at, is_active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (token) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		session.Token,
		session.UserID,
		session.CreatedAt.Unix(),
		session.ExpiresAt.Unix(),
		session.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionConflict
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
		SELECT token, user_id, created_at, expires_at, is_active
		FROM auth_sessions
		WHERE token = $1
	`

	var (
		session            domain.Session
		createdAt, expires int64
	)
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&createdAt,
		&expires,
		&session.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	session.CreatedAt = fromEpoch(createdAt)
	session.ExpiresAt = fromEpoch(expires)
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM auth_sessions WHERE token = $1`, token)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.SessionSweeper    = (*SessionRepository)(nil)
)

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/domain"
	"github.com/fastygo/sessionauth/internal/credentials"
	"github.com/fastygo/sessionauth/internal/token"
	"github.com/fastygo/sessionauth/pkg/httpcontext"
	appLogger "github.com/fastygo/sessionauth/pkg/logger"
	"github.com/fastygo/sessionauth/repository"
)

// DefaultTimeout is the session lifetime used when none is configured.
const DefaultTimeout = 8 * time.Hour

type Option func(*UseCase)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithTokenGenerator replaces the token source.
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(uc *UseCase) {
		if gen != nil {
			uc.newToken = gen
		}
	}
}

// UseCase implements login, logout and validation on top of a session store.
// It keeps no session state between calls.
type UseCase struct {
	verifier credentials.Verifier
	sessions repository.SessionRepository
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
	newToken func() (string, error)
}

func New(verifier credentials.Verifier, sessions repository.SessionRepository, timeout time.Duration, logger *zap.Logger, opts ...Option) *UseCase {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		verifier: verifier,
		sessions: sessions,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
		newToken: token.Generate,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Login checks the credentials and issues a new active session.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	log := appLogger.WithRequestID(ctx, uc.logger)

	principal, err := uc.verifier.Verify(ctx, username, password)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeBadCredentials) {
			fields := append([]zap.Field{zap.String("username_fp", fingerprint(username))}, httpcontext.ClientFields(ctx)...)
			log.Warn("login rejected", fields...)
		}
		return nil, err
	}

	tok, err := uc.newToken()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "token generation failed", err)
	}

	now := uc.clock()
	session := &domain.Session{
		Token:     tok,
		UserID:    principal.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.timeout).Truncate(time.Second),
		IsActive:  true,
	}

	if err := uc.sessions.Put(ctx, session); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "session store put failed", err)
	}

	log.Info("session issued", zap.String("user_id", session.UserID), zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// Logout removes the session behind tok. Missing or unknown tokens are not an
// error, so callers learn nothing about whether a token existed.
func (uc *UseCase) Logout(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, tok); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "session store delete failed", err)
	}
	return nil
}

// Validate returns the session behind tok when it is active and unexpired.
// Expired and inactive sessions are deleted before the failure is reported.
func (uc *UseCase) Validate(ctx context.Context, tok string) (*domain.Session, error) {
	if tok == "" {
		return nil, domain.ErrMissingToken
	}

	session, err := uc.sessions.Get(ctx, tok)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnknownSession
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "session store get failed", err)
	}

	now := uc.clock()
	if !session.ValidAt(now) {
		if err := uc.sessions.Delete(ctx, tok); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "session store delete failed", err)
		}
		if session.IsExpired(now) {
			return nil, domain.ErrExpiredSession
		}
		return nil, domain.ErrInactiveSession
	}

	return session, nil
}

// Timeout returns the configured session lifetime.
func (uc *UseCase) Timeout() time.Duration {
	return uc.timeout
}

// clock returns the current time truncated to whole seconds, the resolution
// of expiresAt on the wire.
func (uc *UseCase) clock() time.Time {
	return time.Unix(uc.now().Unix(), 0).UTC()
}

// fingerprint identifies a submitted username in logs without recording it,
// since operators occasionally type a password into the username field.
func fingerprint(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:6])
}

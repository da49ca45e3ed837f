// Package credentials checks login credentials against the configured
// operator account.
package credentials

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/sessionauth/domain"
)

// Verifier resolves a username/password pair to a principal. Any mismatch
// yields domain.ErrBadCredentials regardless of which field was wrong.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (*domain.Principal, error)
}

// Static verifies against a single operator account held in configuration.
type Static struct {
	username     []byte
	password     []byte
	passwordHash []byte
}

// NewStatic builds a verifier comparing the password byte for byte.
func NewStatic(username, password string) *Static {
	return &Static{username: []byte(username), password: []byte(password)}
}

// NewStaticHashed builds a verifier checking the password against a bcrypt hash.
func NewStaticHashed(username, passwordHash string) (*Static, error) {
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return &Static{username: []byte(username), passwordHash: []byte(passwordHash)}, nil
}

func (s *Static) Verify(_ context.Context, username, password string) (*domain.Principal, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), s.username) == 1

	var passOK bool
	if len(s.passwordHash) > 0 {
		err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.WrapError(domain.ErrCodeInternal, "credential check failed", err)
		}
		passOK = err == nil
	} else {
		passOK = len(s.password) > 0 && subtle.ConstantTimeCompare([]byte(password), s.password) == 1
	}

	if !userOK || !passOK {
		return nil, domain.ErrBadCredentials
	}
	return &domain.Principal{Username: username}, nil
}

var _ Verifier = (*Static)(nil)

package transport

import (
	"errors"
	"net/http"
	"testing"

	"github.com/fastygo/sessionauth/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{domain.ErrBadCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{domain.ErrMissingToken, http.StatusUnauthorized, "No session token provided"},
		{domain.ErrUnknownSession, http.StatusUnauthorized, "Invalid session"},
		{domain.ErrExpiredSession, http.StatusUnauthorized, "Session expired"},
		{domain.ErrInactiveSession, http.StatusUnauthorized, "Session inactive"},
		{domain.ErrRouteNotFound, http.StatusNotFound, "Not found"},
		{domain.WrapError(domain.ErrCodeInternal, "redis down", errors.New("dial tcp")), http.StatusInternalServerError, "Internal server error"},
		{domain.ErrSessionConflict, http.StatusInternalServerError, "Internal server error"},
		{errors.New("plain"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, message := StatusFor(tc.err)
		if status != tc.status || message != tc.message {
			t.Errorf("StatusFor(%v) = %d %q, want %d %q", tc.err, status, message, tc.status, tc.message)
		}
	}
}

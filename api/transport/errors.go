package transport

import (
	"errors"
	"net/http"

	"github.com/fastygo/sessionauth/domain"
)

// StatusFor maps an error to its HTTP status and client-facing message.
// Anything outside the 401/404 taxonomy collapses to an opaque 500.
func StatusFor(err error) (int, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, domain.ErrInternal.Message
	}
	switch {
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, dErr.Message
	case dErr.Code == domain.ErrCodeNotFound:
		return http.StatusNotFound, domain.ErrRouteNotFound.Message
	default:
		return http.StatusInternalServerError, domain.ErrInternal.Message
	}
}

// FromError builds the error response for err.
func FromError(err error) Response {
	status, message := StatusFor(err)
	return NewError(status, message)
}

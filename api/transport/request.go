package transport

import (
	"strings"
)

// Request is an HTTP-shaped inbound request, independent of the server library.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	Body    []byte
}

// Header returns the value of the named header, matching the name case-insensitively.
func (r Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// ExtractToken returns the bearer token from the Authorization header, falling
// back to the "token" query parameter.
func ExtractToken(r Request) string {
	const prefix = "Bearer "
	if auth := r.Header("Authorization"); strings.HasPrefix(auth, prefix) {
		if tok := auth[len(prefix):]; tok != "" {
			return tok
		}
	}
	return r.Query["token"]
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

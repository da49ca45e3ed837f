package domain

import "time"

// Session binds an opaque bearer token to a principal and a validity window.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}

// IsExpired reports whether reference has reached ExpiresAt.
func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !reference.Before(s.ExpiresAt)
}

// ValidAt reports whether the session grants access at reference.
func (s *Session) ValidAt(reference time.Time) bool {
	return s != nil && s.IsActive && !s.IsExpired(reference)
}

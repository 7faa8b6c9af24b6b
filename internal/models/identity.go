package models

import "time"

// Identity is the authenticated user gating checkout.
type Identity struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"-"` // Bearer token presented to the backend
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the identity's token has run out at now.
// A zero ExpiresAt never expires.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

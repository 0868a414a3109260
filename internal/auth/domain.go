package auth

import "time"

// CookieName is the cookie carrying the admin session token.
const CookieName = "admin_session"

// Session represents an issued admin session token.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

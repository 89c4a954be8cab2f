package models

import "time"

// Session records a sign-in. It exists so logout has server-side state to
// clear; it does not affect the validity of already-issued bearer tokens.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

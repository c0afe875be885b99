package domain

import "time"

// Session is the server-side record behind an issued access token.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

package models

import "time"

// RefreshToken is an opaque long-lived token exchanged for a new access
// token. Rotation deletes the old row and inserts a new one.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

package domain

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the per-user extension record that owns blog content.
// At most one Profile exists per user; it is created lazily the first
// time the user touches an owned resource or their profile endpoint.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Bio       string    `json:"bio"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Post is an owned resource. AuthorID references the owning Profile and
// is set exactly once at creation; it is never client-writable.
// Categories and Tags hold taxonomy slugs.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var ErrCategoryNotFound = errors.New("category not found")
var ErrTagNotFound = errors.New("tag not found")
var ErrDuplicateName = errors.New("name already exists")

// Category groups posts under a unique display name. Slug is always
// recomputed from Name on save and never independently settable.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels posts under a unique display name. Same slug rules as
// Category.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slugify derives a URL-safe slug from a display name: lowercase,
// alphanumeric runs joined by single hyphens, no leading or trailing
// hyphen. Deterministic for a given name.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

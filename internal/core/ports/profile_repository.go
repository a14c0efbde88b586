package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	// GetOrCreate returns the profile owned by userID, creating an empty
	// one if none exists. The operation is atomic: concurrent first
	// calls for the same user converge on a single row (unique index on
	// user_id plus upsert).
	GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// UpdateProfileInput carries the client-writable profile fields. Nil
// means "leave unchanged".
type UpdateProfileInput struct {
	Bio     *string
	Picture *string
}

// ProfileService resolves and updates the acting principal's profile.
// Resolve is the principal resolver: idempotent get-or-create.
type ProfileService interface {
	Resolve(ctx context.Context, principal Principal) (*domain.Profile, error)
	Update(ctx context.Context, principal Principal, input UpdateProfileInput) (*domain.Profile, error)
}

package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update persists mutable account fields (email, username, names,
	// password hash, updated_at). Returns domain.ErrUserExists when the
	// new email collides with another account.
	Update(ctx context.Context, user *domain.User) error
}

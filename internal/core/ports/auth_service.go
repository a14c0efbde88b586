package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// TokenPair holds the access/refresh tokens returned on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// UpdateUserInput carries the client-writable account fields. Nil
// pointers mean "leave unchanged".
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// AuthService implements registration, token issuance and account
// self-management.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	// Refresh exchanges a valid, non-blacklisted refresh token for a new
	// access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Verify reports whether the token is well-formed, signed by us and
	// unexpired. Blacklisted refresh tokens fail verification.
	Verify(ctx context.Context, token string) error
	// Blacklist invalidates a refresh token until its natural expiry.
	Blacklist(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
// Save callers are responsible for recomputing the slug from the name;
// the repository enforces name uniqueness (domain.ErrDuplicateName).
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, slug string) ([]*domain.Category, error)
}

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t *domain.Tag) error
	FindByID(ctx context.Context, id string) (*domain.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	List(ctx context.Context, slug string) ([]*domain.Tag, error)
}

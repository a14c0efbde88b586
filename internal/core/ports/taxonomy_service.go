package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// SaveTermInput carries the single client-writable taxonomy field. The
// slug is derived from Name on every save and never accepted as input.
type SaveTermInput struct {
	Name string
}

// TaxonomyService defines use-case operations for categories and tags.
// Reads are open to any authenticated principal; writes are reserved
// for admins and enforced at the transport layer.
type TaxonomyService interface {
	ListCategories(ctx context.Context, slug string) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, input SaveTermInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input SaveTermInput) (*domain.Category, error)

	ListTags(ctx context.Context, slug string) ([]*domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	CreateTag(ctx context.Context, input SaveTermInput) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, input SaveTermInput) (*domain.Tag, error)
}

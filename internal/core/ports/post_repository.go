package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts.
type ListPostsFilter struct {
	Search   string // optional: partial match on title or content
	Category string // optional: category slug
	Tag      string // optional: tag slug
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by service)
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	// List returns a page of posts matching filter and the total count,
	// newest first.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
}

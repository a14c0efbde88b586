package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// ListCommentsFilter carries query parameters for listing comments.
type ListCommentsFilter struct {
	PostID string // optional: scope to one post
	Page   int    // 1-based
	Limit  int
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListCommentsFilter) ([]*domain.Comment, int64, error)
}

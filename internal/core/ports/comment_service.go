package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// CreateCommentInput carries the client-writable data for a new
// comment. The author is always the acting principal's profile.
type CreateCommentInput struct {
	PostID  string
	Content string
}

// ListCommentsInput carries parameters for the comment list endpoint.
type ListCommentsInput struct {
	PostID string
	Page   int
	Limit  int
}

// ListCommentsResult is returned by List.
type ListCommentsResult struct {
	Items      []*domain.Comment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentService defines use-case operations for comments. Comments
// support create, read and delete; there is no update operation.
type CommentService interface {
	Create(ctx context.Context, principal Principal, input CreateCommentInput) (*domain.Comment, error)
	Get(ctx context.Context, principal Principal, id string) (*domain.Comment, error)
	List(ctx context.Context, principal Principal, input ListCommentsInput) (*ListCommentsResult, error)
	Delete(ctx context.Context, principal Principal, id string) error
}

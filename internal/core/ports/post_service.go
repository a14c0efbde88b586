package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// CreatePostInput carries all client-writable data for a new post.
// The author is always the acting principal's profile, never an input.
type CreatePostInput struct {
	Title      string
	Content    string
	Categories []string // category slugs
	Tags       []string // tag slugs
}

// UpdatePostInput carries the client-writable fields of an existing
// post. Nil means "leave unchanged".
type UpdatePostInput struct {
	Title      *string
	Content    *string
	Categories *[]string
	Tags       *[]string
}

// ListPostsInput carries parameters for the list endpoint.
type ListPostsInput struct {
	Search   string
	Category string
	Tag      string
	Page     int
	Limit    int
}

// ListPostsResult is returned by ListPosts.
type ListPostsResult struct {
	Items      []*domain.Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService defines use-case operations for posts. Every method
// authorizes the principal before touching the store.
type PostService interface {
	Create(ctx context.Context, principal Principal, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, principal Principal, id string) (*domain.Post, error)
	List(ctx context.Context, principal Principal, input ListPostsInput) (*ListPostsResult, error)
	Update(ctx context.Context, principal Principal, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, principal Principal, id string) error
}

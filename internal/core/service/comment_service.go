package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// CommentService implements the comment use cases. Comments follow the
// same ownership assignment workflow as posts; they expose no update
// operation.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	profiles ports.ProfileRepository
	grants   ports.GrantRepository
	authz    ports.Authorizer
	granter  *OwnerGrants
	log      zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	profiles ports.ProfileRepository,
	grants ports.GrantRepository,
	authz ports.Authorizer,
	granter *OwnerGrants,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		profiles: profiles,
		grants:   grants,
		authz:    authz,
		granter:  granter,
		log:      log,
	}
}

// Create authorizes add_comment, verifies the parent post, resolves the
// author profile, persists the comment and issues the owner grants.
func (s *CommentService) Create(ctx context.Context, principal ports.Principal, input ports.CreateCommentInput) (*domain.Comment, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionAdd, domain.ResourceComment, ""); err != nil {
		return nil, err
	}

	if _, err := s.posts.FindByID(ctx, input.PostID); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	author, err := s.profiles.GetOrCreate(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("create comment: resolve author: %w", err)
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		PostID:    input.PostID,
		AuthorID:  author.ID,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := s.granter.Issue(ctx, principal.UserID, created.ID); err != nil {
		if delErr := s.comments.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("comment_id", created.ID).Msg("rollback of grant-less comment failed")
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().Str("comment_id", created.ID).Str("post_id", created.PostID).Str("author_id", author.ID).Msg("comment created")
	return created, nil
}

// Get retrieves one comment on the type-level view permission alone.
func (s *CommentService) Get(ctx context.Context, principal ports.Principal, id string) (*domain.Comment, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionView, domain.ResourceComment, ""); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// List returns a page of comments, optionally scoped to one post.
func (s *CommentService) List(ctx context.Context, principal ports.Principal, input ports.ListCommentsInput) (*ports.ListCommentsResult, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionView, domain.ResourceComment, ""); err != nil {
		return nil, err
	}

	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.comments.List(ctx, ports.ListCommentsFilter{
		PostID: input.PostID,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &ports.ListCommentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Delete removes a comment and cascades its object grants. A missing id
// is NotFound; an existing comment without the caller's delete grant is
// Forbidden.
func (s *CommentService) Delete(ctx context.Context, principal ports.Principal, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := s.authz.Authorize(ctx, principal, domain.ActionDelete, domain.ResourceComment, comment.ID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := s.grants.RevokeObject(ctx, domain.ResourceComment, comment.ID); err != nil {
		s.log.Warn().Err(err).Str("comment_id", comment.ID).Msg("failed to revoke grants for deleted comment")
	}

	s.log.Info().Str("comment_id", comment.ID).Str("user_id", principal.UserID).Msg("comment deleted")
	return nil
}

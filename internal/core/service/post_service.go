package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PostService implements the post use cases. Creation is the ownership
// assignment workflow: resolve the author profile, persist the post,
// then issue the owner's change/delete grants in the same operation.
type PostService struct {
	posts      ports.PostRepository
	profiles   ports.ProfileRepository
	categories ports.CategoryRepository
	tags       ports.TagRepository
	grants     ports.GrantRepository
	authz      ports.Authorizer
	granter    *OwnerGrants
	log        zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	profiles ports.ProfileRepository,
	categories ports.CategoryRepository,
	tags ports.TagRepository,
	grants ports.GrantRepository,
	authz ports.Authorizer,
	granter *OwnerGrants,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		profiles:   profiles,
		categories: categories,
		tags:       tags,
		grants:     grants,
		authz:      authz,
		granter:    granter,
		log:        log,
	}
}

// Create authorizes add_post, resolves the author profile, persists the
// post and issues the owner grants. If grant issuance fails the freshly
// inserted post is removed again so no grant-less post stays reachable.
func (s *PostService) Create(ctx context.Context, principal ports.Principal, input ports.CreatePostInput) (*domain.Post, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionAdd, domain.ResourcePost, ""); err != nil {
		return nil, err
	}
	if err := s.checkTerms(ctx, input.Categories, input.Tags); err != nil {
		return nil, err
	}

	author, err := s.profiles.GetOrCreate(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("create post: resolve author: %w", err)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:      input.Title,
		Content:    input.Content,
		AuthorID:   author.ID,
		Categories: input.Categories,
		Tags:       input.Tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := s.granter.Issue(ctx, principal.UserID, created.ID); err != nil {
		// A post without its owner grants would be uneditable by its
		// own author. Roll the insert back and surface the failure.
		if delErr := s.posts.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("post_id", created.ID).Msg("rollback of grant-less post failed")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", created.ID).Str("author_id", author.ID).Msg("post created")
	return created, nil
}

// Get retrieves one post. The type-level view permission is sufficient;
// there is no per-object view restriction.
func (s *PostService) Get(ctx context.Context, principal ports.Principal, id string) (*domain.Post, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionView, domain.ResourcePost, ""); err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List returns a page of posts, newest first.
func (s *PostService) List(ctx context.Context, principal ports.Principal, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionView, domain.ResourcePost, ""); err != nil {
		return nil, err
	}

	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.posts.List(ctx, ports.ListPostsFilter{
		Search:   input.Search,
		Category: input.Category,
		Tag:      input.Tag,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update mutates an existing post. A missing id is NotFound; an
// existing post without the caller's change grant is Forbidden.
func (s *PostService) Update(ctx context.Context, principal ports.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if err := s.authz.Authorize(ctx, principal, domain.ActionChange, domain.ResourcePost, post.ID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Categories != nil {
		post.Categories = *input.Categories
	}
	if input.Tags != nil {
		post.Tags = *input.Tags
	}
	if err := s.checkTerms(ctx, post.Categories, post.Tags); err != nil {
		return nil, err
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("user_id", principal.UserID).Msg("post updated")
	return post, nil
}

// Delete removes a post and cascades its object grants.
func (s *PostService) Delete(ctx context.Context, principal ports.Principal, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if err := s.authz.Authorize(ctx, principal, domain.ActionDelete, domain.ResourcePost, post.ID); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	// Grants share the object's lifetime. Failure here leaves orphaned
	// grant rows that can never match an existing object; log only.
	if err := s.grants.RevokeObject(ctx, domain.ResourcePost, post.ID); err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID).Msg("failed to revoke grants for deleted post")
	}

	s.log.Info().Str("post_id", post.ID).Str("user_id", principal.UserID).Msg("post deleted")
	return nil
}

// checkTerms verifies every referenced category and tag slug exists.
func (s *PostService) checkTerms(ctx context.Context, categorySlugs, tagSlugs []string) error {
	for _, slug := range categorySlugs {
		if _, err := s.categories.FindBySlug(ctx, slug); err != nil {
			return fmt.Errorf("category %q: %w", slug, err)
		}
	}
	for _, slug := range tagSlugs {
		if _, err := s.tags.FindBySlug(ctx, slug); err != nil {
			return fmt.Errorf("tag %q: %w", slug, err)
		}
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

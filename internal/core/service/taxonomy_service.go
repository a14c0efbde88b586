package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// TaxonomyService implements category and tag use cases. The slug is a
// pure function of the name and is recomputed on every save.
type TaxonomyService struct {
	categories ports.CategoryRepository
	tags       ports.TagRepository
	log        zerolog.Logger
}

func NewTaxonomyService(categories ports.CategoryRepository, tags ports.TagRepository, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{categories: categories, tags: tags, log: log}
}

func (s *TaxonomyService) ListCategories(ctx context.Context, slug string) ([]*domain.Category, error) {
	items, err := s.categories.List(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, input ports.SaveTermInput) (*domain.Category, error) {
	now := time.Now().UTC()
	category := &domain.Category{
		Name:      input.Name,
		Slug:      domain.Slugify(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Info().Str("category_id", created.ID).Str("slug", created.Slug).Msg("category created")
	return created, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, input ports.SaveTermInput) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	category.Name = input.Name
	category.Slug = domain.Slugify(input.Name)
	category.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *TaxonomyService) ListTags(ctx context.Context, slug string) ([]*domain.Tag, error) {
	items, err := s.tags.List(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return items, nil
}

func (s *TaxonomyService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, input ports.SaveTermInput) (*domain.Tag, error) {
	now := time.Now().UTC()
	tag := &domain.Tag{
		Name:      input.Name,
		Slug:      domain.Slugify(input.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.tags.Create(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	s.log.Info().Str("tag_id", created.ID).Str("slug", created.Slug).Msg("tag created")
	return created, nil
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id string, input ports.SaveTermInput) (*domain.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	tag.Name = input.Name
	tag.Slug = domain.Slugify(input.Name)
	tag.UpdatedAt = time.Now().UTC()
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

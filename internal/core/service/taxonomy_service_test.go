package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

func newTaxonomyService() (*TaxonomyService, *stubCategoryRepo, *stubTagRepo) {
	categories := newStubCategoryRepo()
	tags := newStubTagRepo()
	return NewTaxonomyService(categories, tags, discardLogger), categories, tags
}

func TestTaxonomyService_CreateCategory_ComputesSlug(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	created, err := svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Category 0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Slug != "category-0" {
		t.Errorf("slug: want %q, got %q", "category-0", created.Slug)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps must be set on create")
	}
}

func TestTaxonomyService_CreateCategory_DuplicateNameConflicts(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	if _, err := svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Go"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Go"})
	if !errors.Is(err, domain.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestTaxonomyService_UpdateCategory_RecomputesSlug(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	created, _ := svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Old Name"})
	updated, err := svc.UpdateCategory(context.Background(), created.ID, ports.SaveTermInput{Name: "Fresh Name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != "fresh-name" {
		t.Errorf("slug must track the name: want %q, got %q", "fresh-name", updated.Slug)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("updated_at must advance on rename")
	}
}

func TestTaxonomyService_UpdateCategory_MissingIDIsNotFound(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	_, err := svc.UpdateCategory(context.Background(), "cat_404", ports.SaveTermInput{Name: "x"})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTaxonomyService_Tags_CreateAndRename(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	created, err := svc.CreateTag(context.Background(), ports.SaveTermInput{Name: "Hot Takes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Slug != "hot-takes" {
		t.Errorf("slug: want %q, got %q", "hot-takes", created.Slug)
	}

	updated, err := svc.UpdateTag(context.Background(), created.ID, ports.SaveTermInput{Name: "Cold Takes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != "cold-takes" {
		t.Errorf("slug must track the name: got %q", updated.Slug)
	}
}

func TestTaxonomyService_ListCategories_SlugFilter(t *testing.T) {
	svc, _, _ := newTaxonomyService()

	_, _ = svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Go"})
	_, _ = svc.CreateCategory(context.Background(), ports.SaveTermInput{Name: "Rust"})

	all, err := svc.ListCategories(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 categories, got %d", len(all))
	}

	filtered, err := svc.ListCategories(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Slug != "go" {
		t.Errorf("slug filter broken: %+v", filtered)
	}
}

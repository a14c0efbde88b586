package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

type stubPostService struct {
	createFn func(ctx context.Context, principal ports.Principal, input ports.CreatePostInput) (*domain.Post, error)
	getFn    func(ctx context.Context, principal ports.Principal, id string) (*domain.Post, error)
	listFn   func(ctx context.Context, principal ports.Principal, input ports.ListPostsInput) (*ports.ListPostsResult, error)
	updateFn func(ctx context.Context, principal ports.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, principal ports.Principal, id string) error
}

func (s *stubPostService) Create(ctx context.Context, principal ports.Principal, input ports.CreatePostInput) (*domain.Post, error) {
	return s.createFn(ctx, principal, input)
}

func (s *stubPostService) Get(ctx context.Context, principal ports.Principal, id string) (*domain.Post, error) {
	return s.getFn(ctx, principal, id)
}

func (s *stubPostService) List(ctx context.Context, principal ports.Principal, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	return s.listFn(ctx, principal, input)
}

func (s *stubPostService) Update(ctx context.Context, principal ports.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, principal, id, input)
}

func (s *stubPostService) Delete(ctx context.Context, principal ports.Principal, id string) error {
	return s.deleteFn(ctx, principal, id)
}

func authedContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newTestContext(t, method, path, body)
	c.Set("user_id", "user_1")
	c.Set("email", "alice@example.com")
	c.Set("role", domain.RoleAuthor)
	c.Set("groups", []string{"authors"})
	return c, rec
}

func samplePost() *domain.Post {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &domain.Post{
		ID:         "post_1",
		Title:      "Hello",
		Content:    "First post.",
		AuthorID:   "profile_1",
		Categories: []string{"go"},
		Tags:       []string{"tdd"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestPostHandler_Create_Success(t *testing.T) {
	stub := &stubPostService{
		createFn: func(_ context.Context, principal ports.Principal, input ports.CreatePostInput) (*domain.Post, error) {
			if principal.UserID != "user_1" {
				t.Fatalf("unexpected principal %+v", principal)
			}
			if input.Title != "Hello" || len(input.Categories) != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return samplePost(), nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := authedContext(t, http.MethodPost, "/v1/posts", `{"title":"Hello","content":"First post.","categories":["go"],"tags":["tdd"]}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "post_1" || resp["author_id"] != "profile_1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPostHandler_Create_MissingTitleIsUnprocessable(t *testing.T) {
	stub := &stubPostService{
		createFn: func(context.Context, ports.Principal, ports.CreatePostInput) (*domain.Post, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewPostHandler(stub)

	c, _ := authedContext(t, http.MethodPost, "/v1/posts", `{"content":"no title"}`)
	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestPostHandler_Create_WithoutClaims(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/posts", `{"title":"x","content":"y"}`)
	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestPostHandler_Create_ForbiddenSurfaces(t *testing.T) {
	stub := &stubPostService{
		createFn: func(context.Context, ports.Principal, ports.CreatePostInput) (*domain.Post, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewPostHandler(stub)

	c, _ := authedContext(t, http.MethodPost, "/v1/posts", `{"title":"Hello","content":"First post."}`)
	err := handler.Create(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden to surface, got %v", err)
	}
}

func TestPostHandler_Get_NotFoundSurfaces(t *testing.T) {
	stub := &stubPostService{
		getFn: func(_ context.Context, _ ports.Principal, id string) (*domain.Post, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrPostNotFound
		},
	}
	handler := NewPostHandler(stub)

	c, _ := authedContext(t, http.MethodGet, "/v1/posts/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := handler.Get(c)
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound to surface, got %v", err)
	}
}

func TestPostHandler_List_PassesQueryFilters(t *testing.T) {
	var got ports.ListPostsInput
	stub := &stubPostService{
		listFn: func(_ context.Context, _ ports.Principal, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
			got = input
			return &ports.ListPostsResult{
				Items:      []*domain.Post{samplePost()},
				Total:      1,
				Page:       2,
				Limit:      5,
				TotalPages: 1,
			}, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/posts?search=go&category=news&tag=tdd&page=2&limit=5", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Search != "go" || got.Category != "news" || got.Tag != "tdd" || got.Page != 2 || got.Limit != 5 {
		t.Fatalf("filters not forwarded: %+v", got)
	}

	var resp struct {
		Data       []map[string]any `json:"data"`
		Pagination map[string]any   `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination["page"] != float64(2) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPostHandler_List_NonNumericPagingIsIgnored(t *testing.T) {
	stub := &stubPostService{
		listFn: func(_ context.Context, _ ports.Principal, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
			if input.Page != 0 || input.Limit != 0 {
				t.Fatalf("expected zero paging, got %+v", input)
			}
			return &ports.ListPostsResult{Items: nil, Page: 1, Limit: 20, TotalPages: 0}, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/posts?page=abc&limit=xyz", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data == nil {
		t.Fatalf("empty list must still serialize as [], got %s", rec.Body.String())
	}
}

func TestPostHandler_Update_ForwardsPartialFields(t *testing.T) {
	stub := &stubPostService{
		updateFn: func(_ context.Context, _ ports.Principal, id string, input ports.UpdatePostInput) (*domain.Post, error) {
			if id != "post_1" {
				t.Fatalf("unexpected id %q", id)
			}
			if input.Title == nil || *input.Title != "Renamed" {
				t.Fatalf("title not forwarded: %+v", input)
			}
			if input.Content != nil || input.Categories != nil || input.Tags != nil {
				t.Fatalf("absent fields must stay nil: %+v", input)
			}
			p := samplePost()
			p.Title = "Renamed"
			return p, nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := authedContext(t, http.MethodPut, "/v1/posts/post_1", `{"title":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues("post_1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Delete_NoContent(t *testing.T) {
	var deleted string
	stub := &stubPostService{
		deleteFn: func(_ context.Context, _ ports.Principal, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewPostHandler(stub)

	c, rec := authedContext(t, http.MethodDelete, "/v1/posts/post_1", "")
	c.SetParamNames("id")
	c.SetParamValues("post_1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "post_1" {
		t.Fatalf("service called with %q", deleted)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

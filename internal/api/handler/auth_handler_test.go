package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	verifyFn         func(ctx context.Context, token string) error
	blacklistFn      func(ctx context.Context, refreshToken string) error
	getUserFn        func(ctx context.Context, userID string) (*domain.User, error)
	updateUserFn     func(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Verify(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) Blacklist(ctx context.Context, refreshToken string) error {
	return s.blacklistFn(ctx, refreshToken)
}

func (s *stubAuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUserFn(ctx, userID)
}

func (s *stubAuthService) UpdateUser(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateUserFn(ctx, userID, input)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, email, password string) (*domain.User, error) {
			if email != "alice@example.com" || password != "s3cretpass" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "user_1", Email: email, Username: "alice", Role: domain.RoleAuthor}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"s3cretpass"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != domain.RoleAuthor {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"s3cretpass"}`)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to surface, got %v", err)
	}
}

func TestAuthHandler_Register_ShortPasswordRejected(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"short"}`)
	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Token_ReturnsPair(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			return &ports.TokenPair{Access: "acc", Refresh: "ref"}, &domain.User{ID: "user_1"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/token", `{"email":"alice@example.com","password":"s3cretpass"}`)
	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access"] != "acc" || resp["refresh"] != "ref" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Token_UnknownAccountReadsAsInvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrUserNotFound
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/token", `{"email":"ghost@example.com","password":"whatever0"}`)
	err := handler.Token(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("account existence must not leak, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (string, error) {
			if refreshToken != "ref" {
				t.Fatalf("unexpected token %q", refreshToken)
			}
			return "new-access", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/token/refresh", `{"refresh":"ref"}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access"] != "new-access" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_BlacklistToken(t *testing.T) {
	var got string
	stub := &stubAuthService{
		blacklistFn: func(_ context.Context, refreshToken string) error {
			got = refreshToken
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/token/blacklist", `{"refresh":"ref"}`)
	if err := handler.BlacklistToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "ref" {
		t.Fatalf("service called with %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_RequiresClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/me", "")
	err := handler.Me(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestAuthHandler_Me_ReturnsAccount(t *testing.T) {
	stub := &stubAuthService{
		getUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return &domain.User{ID: userID, Email: "alice@example.com", Username: "alice"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/me", "")
	c.Set("user_id", "user_1")
	c.Set("role", domain.RoleAuthor)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user_1" || resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_ChangePassword_NoContent(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID, oldPassword, newPassword string) error {
			if oldPassword != "oldpass123" || newPassword != "newpass123" {
				t.Fatalf("unexpected args: %s %s", oldPassword, newPassword)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/auth/me/password", `{"old_password":"oldpass123","new_password":"newpass123"}`)
	c.Set("user_id", "user_1")

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

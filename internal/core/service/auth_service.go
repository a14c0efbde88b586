package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenBlacklist abstracts the revoked-refresh-token store (Redis).
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// AuthService implements registration, the token endpoints and account
// self-management.
type AuthService struct {
	repo         ports.UserRepository
	blacklist    TokenBlacklist
	jwtSecret    string
	accessTTL    time.Duration
	refreshTTL   time.Duration
	defaultGroup string
}

func NewAuthService(repo ports.UserRepository, blacklist TokenBlacklist, jwtSecret, defaultGroup string, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		repo:         repo,
		blacklist:    blacklist,
		jwtSecret:    jwtSecret,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		defaultGroup: defaultGroup,
	}
}

// Register creates an author account. The username is derived from the
// email local part and the new user joins the default group.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     domain.UsernameFromEmail(email),
		PasswordHash: string(hash),
		Role:         domain.RoleAuthor,
		Groups:       []string{s.defaultGroup},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}

	return &ports.TokenPair{Access: access, Refresh: refresh}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token. Role
// and group claims are re-read from the store so permission changes
// take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if err := s.checkBlacklist(ctx, claims); err != nil {
		return "", err
	}

	userID, _ := claims["sub"].(string)
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

// Verify reports whether the token is valid. Blacklisted refresh
// tokens fail verification.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidCredentials
	}
	if claims["type"] == tokenTypeRefresh {
		return s.checkBlacklist(ctx, claims)
	}
	return nil
}

// Blacklist invalidates a refresh token until its natural expiry.
func (s *AuthService) Blacklist(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return domain.ErrInvalidCredentials
	}

	ttl := s.refreshTTL
	if exp, convErr := claims.GetExpirationTime(); convErr == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}

	if err := s.blacklist.Add(ctx, jti, ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateUser applies the client-writable account fields. An email
// change re-derives the username.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		user.Email = *input.Email
		user.Username = domain.UsernameFromEmail(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, user)
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.ID,
		"email":  user.Email,
		"role":   user.Role,
		"groups": user.Groups,
		"type":   tokenTypeAccess,
		"iat":    now.Unix(),
		"exp":    now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) generateRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"jti":  newJTI(),
		"type": tokenTypeRefresh,
		"iat":  now.Unix(),
		"exp":  now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token, wantType string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims["type"] != wantType {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}

func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return []byte(s.jwtSecret), nil
}

func (s *AuthService) checkBlacklist(ctx context.Context, claims jwt.MapClaims) error {
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return domain.ErrInvalidCredentials
	}
	revoked, err := s.blacklist.Contains(ctx, jti)
	if err != nil {
		return fmt.Errorf("blacklist check: %w", err)
	}
	if revoked {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// newJTI returns a random token identifier.
func newJTI() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

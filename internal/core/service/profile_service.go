package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// ProfileService resolves and updates the acting principal's profile.
type ProfileService struct {
	profiles ports.ProfileRepository
	authz    ports.Authorizer
	log      zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, authz ports.Authorizer, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, authz: authz, log: log}
}

// Resolve returns the principal's profile, creating an empty one on
// first access. Idempotent, including under concurrent first calls
// (atomic upsert in the repository).
func (s *ProfileService) Resolve(ctx context.Context, principal ports.Principal) (*domain.Profile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	return profile, nil
}

// Update changes bio/picture on the caller's own profile. The target
// row is always the principal's own, so the type-level change_profile
// permission is sufficient; no object grant is involved.
func (s *ProfileService) Update(ctx context.Context, principal ports.Principal, input ports.UpdateProfileInput) (*domain.Profile, error) {
	if err := s.authz.Authorize(ctx, principal, domain.ActionChange, domain.ResourceProfile, ""); err != nil {
		return nil, err
	}

	profile, err := s.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Picture != nil {
		profile.Picture = *input.Picture
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("profile_id", profile.ID).Str("user_id", principal.UserID).Msg("profile updated")
	return profile, nil
}

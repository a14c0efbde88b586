package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// GrantRepository is the object-level ACL store. Grants are keyed by
// (principal, resource, object, codename); issuing the same grant twice
// is a no-op.
type GrantRepository interface {
	Grant(ctx context.Context, g domain.Grant) error
	Has(ctx context.Context, principalID string, resource domain.Resource, objectID, codename string) (bool, error)
	// RevokeObject removes every grant targeting one object. Called when
	// the object itself is deleted so grants share its lifetime.
	RevokeObject(ctx context.Context, resource domain.Resource, objectID string) error
}

// GroupRepository provides type-level permission lookups.
type GroupRepository interface {
	// PermissionsFor returns the union of permission codenames across
	// the named groups. Unknown group names are ignored.
	PermissionsFor(ctx context.Context, groupNames []string) (map[string]struct{}, error)
	FindByName(ctx context.Context, name string) (*domain.Group, error)
	Create(ctx context.Context, g *domain.Group) error
}

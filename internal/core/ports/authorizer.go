package ports

import (
	"context"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// Principal is the authenticated identity attached to a request by the
// auth middleware. Role and Groups come from verified token claims.
type Principal struct {
	UserID string
	Email  string
	Role   string
	Groups []string
}

// IsAdmin reports whether the principal holds the global bypass role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// Authorizer decides whether a principal may perform an action on a
// resource type or, when objectID is non-empty, on one specific object.
//
// Rules:
//   - admin role short-circuits every check (allow).
//   - the type-level codename "<action>_<resource>" must be held via
//     group membership, for every action.
//   - change and delete on a specific object additionally require an
//     object-level grant; view on an instance needs type-level only.
//
// A denial is reported as domain.ErrForbidden.
type Authorizer interface {
	Authorize(ctx context.Context, principal Principal, action domain.Action, resource domain.Resource, objectID string) error
}

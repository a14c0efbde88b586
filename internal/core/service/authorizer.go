package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// Authorizer combines type-level group permissions with object-level
// grants. See ports.Authorizer for the decision rules.
type Authorizer struct {
	groups ports.GroupRepository
	grants ports.GrantRepository
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewAuthorizer(groups ports.GroupRepository, grants ports.GrantRepository, audit ports.AuditRecorder, log zerolog.Logger) *Authorizer {
	return &Authorizer{groups: groups, grants: grants, audit: audit, log: log}
}

// Authorize decides allow/deny for one principal, action and resource,
// optionally scoped to a single object. A deny is domain.ErrForbidden;
// any other error is a store failure.
func (a *Authorizer) Authorize(ctx context.Context, principal ports.Principal, action domain.Action, resource domain.Resource, objectID string) error {
	if !resource.Valid() {
		return fmt.Errorf("authorize: %w: %s", domain.ErrUnknownResource, resource)
	}

	// Global bypass: admins skip both the type-level and the
	// object-level check.
	if principal.IsAdmin() {
		return nil
	}

	codename := domain.Codename(action, resource)

	perms, err := a.groups.PermissionsFor(ctx, principal.Groups)
	if err != nil {
		return fmt.Errorf("authorize: load group permissions: %w", err)
	}
	if _, ok := perms[codename]; !ok {
		return a.deny(principal, action, resource, objectID, "missing type permission")
	}

	// Change and delete on a specific object require an owner grant on
	// top of the type permission. View at the instance level is covered
	// by the type permission alone.
	if objectID != "" && (action == domain.ActionChange || action == domain.ActionDelete) {
		held, err := a.grants.Has(ctx, principal.UserID, resource, objectID, codename)
		if err != nil {
			return fmt.Errorf("authorize: check object grant: %w", err)
		}
		if !held {
			return a.deny(principal, action, resource, objectID, "missing object grant")
		}
	}

	return nil
}

func (a *Authorizer) deny(principal ports.Principal, action domain.Action, resource domain.Resource, objectID, reason string) error {
	a.log.Debug().
		Str("user_id", principal.UserID).
		Str("action", string(action)).
		Str("resource", string(resource)).
		Str("object_id", objectID).
		Str("reason", reason).
		Msg("authorization denied")

	if a.audit != nil {
		a.audit.Record(ports.AuditEvent{
			PrincipalID: principal.UserID,
			Action:      action,
			Resource:    resource,
			ObjectID:    objectID,
			Decision:    "deny",
			At:          time.Now().UTC(),
		})
	}
	return domain.ErrForbidden
}

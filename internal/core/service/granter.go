package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// ownerActions are the permission kinds issued to a creator on their
// own object. View and add stay type-level only.
var ownerActions = [...]domain.Action{domain.ActionChange, domain.ActionDelete}

// OwnerGrants issues the owner's change/delete grants for exactly one
// resource type. The resource is fixed and validated at construction so
// a miswired service fails at startup, not on the first request.
type OwnerGrants struct {
	resource domain.Resource
	grants   ports.GrantRepository
	audit    ports.AuditRecorder
}

func NewOwnerGrants(resource domain.Resource, grants ports.GrantRepository, audit ports.AuditRecorder) (*OwnerGrants, error) {
	if !resource.Valid() {
		return nil, fmt.Errorf("owner grants: %w: %s", domain.ErrUnknownResource, resource)
	}
	if grants == nil {
		return nil, errors.New("owner grants: nil grant repository")
	}
	return &OwnerGrants{resource: resource, grants: grants, audit: audit}, nil
}

// Issue grants change and delete on the identified object to the
// principal. Idempotent: re-issuing an existing grant is a no-op.
func (g *OwnerGrants) Issue(ctx context.Context, principalID, objectID string) error {
	now := time.Now().UTC()
	for _, action := range ownerActions {
		grant := domain.Grant{
			PrincipalID: principalID,
			Resource:    g.resource,
			ObjectID:    objectID,
			Codename:    domain.Codename(action, g.resource),
			GrantedAt:   now,
		}
		if err := g.grants.Grant(ctx, grant); err != nil {
			return fmt.Errorf("issue %s grant: %w", grant.Codename, err)
		}
		if g.audit != nil {
			g.audit.Record(ports.AuditEvent{
				PrincipalID: principalID,
				Action:      action,
				Resource:    g.resource,
				ObjectID:    objectID,
				Decision:    "grant",
				At:          now,
			})
		}
	}
	return nil
}

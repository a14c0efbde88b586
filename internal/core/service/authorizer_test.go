package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubGroupRepo struct {
	groups  map[string][]string // name -> permission codenames
	listErr error
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: make(map[string][]string)}
}

func (r *stubGroupRepo) PermissionsFor(_ context.Context, groupNames []string) (map[string]struct{}, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	perms := make(map[string]struct{})
	for _, name := range groupNames {
		for _, p := range r.groups[name] {
			perms[p] = struct{}{}
		}
	}
	return perms, nil
}

func (r *stubGroupRepo) FindByName(_ context.Context, name string) (*domain.Group, error) {
	perms, ok := r.groups[name]
	if !ok {
		return nil, errors.New("group not found")
	}
	return &domain.Group{Name: name, Permissions: perms}, nil
}

func (r *stubGroupRepo) Create(_ context.Context, g *domain.Group) error {
	r.groups[g.Name] = g.Permissions
	return nil
}

type grantKey struct {
	principalID string
	resource    domain.Resource
	objectID    string
	codename    string
}

type stubGrantRepo struct {
	grants   map[grantKey]struct{}
	grantErr error
	hasErr   error
}

func newStubGrantRepo() *stubGrantRepo {
	return &stubGrantRepo{grants: make(map[grantKey]struct{})}
}

func (r *stubGrantRepo) Grant(_ context.Context, g domain.Grant) error {
	if r.grantErr != nil {
		return r.grantErr
	}
	r.grants[grantKey{g.PrincipalID, g.Resource, g.ObjectID, g.Codename}] = struct{}{}
	return nil
}

func (r *stubGrantRepo) Has(_ context.Context, principalID string, resource domain.Resource, objectID, codename string) (bool, error) {
	if r.hasErr != nil {
		return false, r.hasErr
	}
	_, ok := r.grants[grantKey{principalID, resource, objectID, codename}]
	return ok, nil
}

func (r *stubGrantRepo) RevokeObject(_ context.Context, resource domain.Resource, objectID string) error {
	for k := range r.grants {
		if k.resource == resource && k.objectID == objectID {
			delete(r.grants, k)
		}
	}
	return nil
}

// hasGrant is a test helper for asserting one grant exists.
func (r *stubGrantRepo) hasGrant(principalID string, resource domain.Resource, objectID, codename string) bool {
	_, ok := r.grants[grantKey{principalID, resource, objectID, codename}]
	return ok
}

type stubAuditRecorder struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (r *stubAuditRecorder) Record(event ports.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *stubAuditRecorder) byDecision(decision string) []ports.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.AuditEvent
	for _, e := range r.events {
		if e.Decision == decision {
			out = append(out, e)
		}
	}
	return out
}

var discardLogger = zerolog.Nop()

func authorPrincipal(userID string) ports.Principal {
	return ports.Principal{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   domain.RoleAuthor,
		Groups: []string{"authors"},
	}
}

func adminPrincipal() ports.Principal {
	return ports.Principal{UserID: "admin_1", Role: domain.RoleAdmin}
}

// seedAuthorGroup gives the authors group the full blog permission set.
func seedAuthorGroup(groups *stubGroupRepo) {
	var perms []string
	for _, res := range []domain.Resource{domain.ResourcePost, domain.ResourceComment, domain.ResourceProfile} {
		for _, act := range []domain.Action{domain.ActionView, domain.ActionAdd, domain.ActionChange, domain.ActionDelete} {
			perms = append(perms, domain.Codename(act, res))
		}
	}
	groups.groups["authors"] = perms
}

// ---------------------------------------------------------------------------
// Authorize tests
// ---------------------------------------------------------------------------

func TestAuthorizer_AdminBypassesAllChecks(t *testing.T) {
	groups := newStubGroupRepo() // empty: admin must not need any group
	grants := newStubGrantRepo()
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	err := authz.Authorize(context.Background(), adminPrincipal(), domain.ActionDelete, domain.ResourcePost, "post_1")
	if err != nil {
		t.Fatalf("admin must bypass all checks, got %v", err)
	}
}

func TestAuthorizer_MissingTypePermissionDenies(t *testing.T) {
	groups := newStubGroupRepo()
	grants := newStubGrantRepo()
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionAdd, domain.ResourcePost, "")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizer_TypePermissionAllowsCollectionAction(t *testing.T) {
	groups := newStubGroupRepo()
	seedAuthorGroup(groups)
	grants := newStubGrantRepo()
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionAdd, domain.ResourcePost, "")
	if err != nil {
		t.Fatalf("add with type permission should be allowed, got %v", err)
	}
}

func TestAuthorizer_ViewOnInstanceNeedsNoObjectGrant(t *testing.T) {
	groups := newStubGroupRepo()
	seedAuthorGroup(groups)
	grants := newStubGrantRepo() // no object grants at all
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionView, domain.ResourcePost, "post_1")
	if err != nil {
		t.Fatalf("view on instance needs type permission only, got %v", err)
	}
}

func TestAuthorizer_ChangeOnInstanceRequiresObjectGrant(t *testing.T) {
	groups := newStubGroupRepo()
	seedAuthorGroup(groups)
	grants := newStubGrantRepo()
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	// No grant: denied even though the type permission is held.
	err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionChange, domain.ResourcePost, "post_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without object grant, got %v", err)
	}

	// With the owner grant the same check passes.
	_ = grants.Grant(context.Background(), domain.Grant{
		PrincipalID: "u1",
		Resource:    domain.ResourcePost,
		ObjectID:    "post_1",
		Codename:    domain.Codename(domain.ActionChange, domain.ResourcePost),
	})
	if err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionChange, domain.ResourcePost, "post_1"); err != nil {
		t.Fatalf("expected allow with object grant, got %v", err)
	}
}

func TestAuthorizer_GrantDoesNotLeakAcrossPrincipals(t *testing.T) {
	groups := newStubGroupRepo()
	seedAuthorGroup(groups)
	grants := newStubGrantRepo()
	authz := NewAuthorizer(groups, grants, nil, discardLogger)

	_ = grants.Grant(context.Background(), domain.Grant{
		PrincipalID: "owner",
		Resource:    domain.ResourceComment,
		ObjectID:    "comment_1",
		Codename:    domain.Codename(domain.ActionDelete, domain.ResourceComment),
	})

	err := authz.Authorize(context.Background(), authorPrincipal("intruder"), domain.ActionDelete, domain.ResourceComment, "comment_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("another principal's grant must not apply, got %v", err)
	}
}

func TestAuthorizer_UnknownResourceRejected(t *testing.T) {
	authz := NewAuthorizer(newStubGroupRepo(), newStubGrantRepo(), nil, discardLogger)

	err := authz.Authorize(context.Background(), adminPrincipal(), domain.ActionView, domain.Resource("shipment"), "")
	if !errors.Is(err, domain.ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestAuthorizer_DenialsAreAudited(t *testing.T) {
	groups := newStubGroupRepo()
	grants := newStubGrantRepo()
	audit := &stubAuditRecorder{}
	authz := NewAuthorizer(groups, grants, audit, discardLogger)

	_ = authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionAdd, domain.ResourcePost, "")

	denies := audit.byDecision("deny")
	if len(denies) != 1 {
		t.Fatalf("expected 1 deny event, got %d", len(denies))
	}
	if denies[0].PrincipalID != "u1" || denies[0].Resource != domain.ResourcePost || denies[0].Action != domain.ActionAdd {
		t.Errorf("deny event fields wrong: %+v", denies[0])
	}
}

func TestAuthorizer_GroupStoreErrorIsNotForbidden(t *testing.T) {
	groups := newStubGroupRepo()
	groups.listErr = errors.New("db unavailable")
	authz := NewAuthorizer(groups, newStubGrantRepo(), nil, discardLogger)

	err := authz.Authorize(context.Background(), authorPrincipal("u1"), domain.ActionView, domain.ResourcePost, "")
	if err == nil {
		t.Fatal("expected error when group store fails")
	}
	if errors.Is(err, domain.ErrForbidden) {
		t.Error("store failure must not masquerade as a permission denial")
	}
}

// ---------------------------------------------------------------------------
// OwnerGrants tests
// ---------------------------------------------------------------------------

func TestOwnerGrants_IssuesChangeAndDelete(t *testing.T) {
	grants := newStubGrantRepo()
	audit := &stubAuditRecorder{}
	granter, err := NewOwnerGrants(domain.ResourcePost, grants, audit)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	if err := granter.Issue(context.Background(), "u1", "post_1"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	for _, action := range []domain.Action{domain.ActionChange, domain.ActionDelete} {
		codename := domain.Codename(action, domain.ResourcePost)
		if !grants.hasGrant("u1", domain.ResourcePost, "post_1", codename) {
			t.Errorf("missing %s grant", codename)
		}
	}
	if got := len(audit.byDecision("grant")); got != 2 {
		t.Errorf("expected 2 grant audit events, got %d", got)
	}
}

func TestOwnerGrants_InvalidResourceFailsConstruction(t *testing.T) {
	_, err := NewOwnerGrants(domain.Resource("bogus"), newStubGrantRepo(), nil)
	if !errors.Is(err, domain.ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestOwnerGrants_NilRepoFailsConstruction(t *testing.T) {
	if _, err := NewOwnerGrants(domain.ResourcePost, nil, nil); err == nil {
		t.Fatal("expected error for nil grant repository")
	}
}

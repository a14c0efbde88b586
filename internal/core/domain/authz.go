package domain

import (
	"errors"
	"fmt"
	"time"
)

// Action is a coarse operation kind carried by permission codenames.
type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

// Resource identifies a permission-checked aggregate type.
type Resource string

const (
	ResourcePost    Resource = "post"
	ResourceComment Resource = "comment"
	ResourceProfile Resource = "profile"
)

var ErrForbidden = errors.New("access forbidden")
var ErrUnknownResource = errors.New("unknown resource")

var validResources = map[Resource]struct{}{
	ResourcePost:    {},
	ResourceComment: {},
	ResourceProfile: {},
}

// Valid reports whether r names a known resource.
func (r Resource) Valid() bool {
	_, ok := validResources[r]
	return ok
}

// Codename builds the permission codename for an action on a resource,
// e.g. Codename(ActionChange, ResourcePost) == "change_post".
func Codename(action Action, resource Resource) string {
	return fmt.Sprintf("%s_%s", action, resource)
}

// Grant records that a principal holds a specific permission on one
// object instance. Grants are issued only to the owner, only for
// change/delete, only at creation time.
type Grant struct {
	PrincipalID string    `json:"principal_id" bson:"principal_id"`
	Resource    Resource  `json:"resource" bson:"resource"`
	ObjectID    string    `json:"object_id" bson:"object_id"`
	Codename    string    `json:"codename" bson:"codename"`
	GrantedAt   time.Time `json:"granted_at" bson:"granted_at"`
}

// Group is a named set of type-level permission codenames. Users are
// members of zero or more groups; their type-level permissions are the
// union over memberships.
type Group struct {
	Name        string    `json:"name" bson:"name"`
	Permissions []string  `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

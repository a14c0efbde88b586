package ports

import (
	"context"
	"time"

	"github.com/pressbox/blog-api/internal/core/domain"
)

// AuditEvent is a single authorization-relevant occurrence: a grant
// being issued or an access decision being made.
type AuditEvent struct {
	PrincipalID string
	Action      domain.Action
	Resource    domain.Resource
	ObjectID    string
	Decision    string // "allow", "deny", "grant"
	At          time.Time
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous persistence.
// Recording is fire-and-forget; it never affects the request outcome.
type AuditRecorder interface {
	Record(event AuditEvent)
}

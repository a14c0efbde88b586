package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pressbox/blog-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository persists authorization audit events.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	PrincipalID string    `bson:"principal_id"`
	Action      string    `bson:"action"`
	Resource    string    `bson:"resource"`
	ObjectID    string    `bson:"object_id,omitempty"`
	Decision    string    `bson:"decision"`
	At          time.Time `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *ports.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, mongoAuditEvent{
		PrincipalID: event.PrincipalID,
		Action:      string(event.Action),
		Resource:    string(event.Resource),
		ObjectID:    event.ObjectID,
		Decision:    event.Decision,
		At:          event.At,
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes for the audit trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "principal_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "object_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

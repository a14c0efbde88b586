package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pressbox/blog-api/internal/core/domain"
)

const grantsCollection = "object_grants"

// GrantRepository implements the object ACL store on MongoDB. A unique
// compound index on (principal, resource, object, codename) makes
// Grant idempotent: re-issuing an existing grant matches the existing
// row and inserts nothing.
type GrantRepository struct {
	coll *mongo.Collection
}

func NewGrantRepository(db *mongo.Database) *GrantRepository {
	return &GrantRepository{coll: db.Collection(grantsCollection)}
}

func (r *GrantRepository) Grant(ctx context.Context, g domain.Grant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"principal_id": g.PrincipalID,
		"resource":     g.Resource,
		"object_id":    g.ObjectID,
		"codename":     g.Codename,
	}
	update := bson.M{"$setOnInsert": bson.M{"granted_at": g.GrantedAt}}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// The upsert can race another issuance of the same grant; the
		// duplicate-key error then means the grant already exists.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("upsert grant: %w", err)
	}
	return nil
}

func (r *GrantRepository) Has(ctx context.Context, principalID string, resource domain.Resource, objectID, codename string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"principal_id": principalID,
		"resource":     resource,
		"object_id":    objectID,
		"codename":     codename,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count grants: %w", err)
	}
	return n > 0, nil
}

// RevokeObject removes every grant targeting one object, regardless of
// principal or kind.
func (r *GrantRepository) RevokeObject(ctx context.Context, resource domain.Resource, objectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{
		"resource":  resource,
		"object_id": objectID,
	})
	if err != nil {
		return fmt.Errorf("revoke grants: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique compound grant index and the
// object lookup index used by RevokeObject.
func (r *GrantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "principal_id", Value: 1},
				{Key: "resource", Value: 1},
				{Key: "object_id", Value: 1},
				{Key: "codename", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "object_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

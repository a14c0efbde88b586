package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pressbox/blog-api/internal/core/domain"
)

const groupsCollection = "groups"

var ErrGroupExists = errors.New("group already exists")
var ErrGroupNotFound = errors.New("group not found")

// GroupRepository implements ports.GroupRepository on MongoDB.
type GroupRepository struct {
	coll *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{coll: db.Collection(groupsCollection)}
}

type mongoGroup struct {
	Name        string    `bson:"name"`
	Permissions []string  `bson:"permissions"`
	CreatedAt   time.Time `bson:"created_at"`
}

// PermissionsFor returns the union of the named groups' permission
// codenames. Unknown names contribute nothing.
func (r *GroupRepository) PermissionsFor(ctx context.Context, groupNames []string) (map[string]struct{}, error) {
	perms := make(map[string]struct{})
	if len(groupNames) == 0 {
		return perms, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"name": bson.M{"$in": groupNames}})
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var mg mongoGroup
		if err := cur.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		for _, p := range mg.Permissions {
			perms[p] = struct{}{}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return perms, nil
}

func (r *GroupRepository) FindByName(ctx context.Context, name string) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mg mongoGroup
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &domain.Group{Name: mg.Name, Permissions: mg.Permissions, CreatedAt: mg.CreatedAt}, nil
}

func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, mongoGroup{
		Name:        g.Name,
		Permissions: g.Permissions,
		CreatedAt:   g.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrGroupExists
		}
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique group name index.
func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

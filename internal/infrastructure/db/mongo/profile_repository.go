package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pressbox/blog-api/internal/core/domain"
)

const profilesCollection = "profiles"

// ProfileRepository implements ports.ProfileRepository on MongoDB.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type mongoProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Bio       string             `bson:"bio"`
	Picture   string             `bson:"picture,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// GetOrCreate returns the profile owned by userID, inserting an empty
// one when absent. A single upsert against the unique user_id index
// makes concurrent first calls converge on one row: the loser of the
// race simply reads the winner's document.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"user_id":    userID,
		"bio":        "",
		"created_at": now,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var mp mongoProfile
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp); err != nil {
		// A concurrent upsert can still trip the unique index; the row
		// exists now, so a plain read resolves it.
		if mongo.IsDuplicateKeyError(err) {
			return r.findOne(ctx, filter)
		}
		return nil, fmt.Errorf("get or create profile: %w", err)
	}
	return toProfile(&mp), nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(profile.ID)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	update := bson.M{"$set": bson.M{
		"bio":        profile.Bio,
		"picture":    profile.Picture,
		"updated_at": profile.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return toProfile(&mp), nil
}

func toProfile(mp *mongoProfile) *domain.Profile {
	return &domain.Profile{
		ID:        mp.ID.Hex(),
		UserID:    mp.UserID,
		Bio:       mp.Bio,
		Picture:   mp.Picture,
		CreatedAt: mp.CreatedAt,
		UpdatedAt: mp.UpdatedAt,
	}
}

// EnsureIndexes creates the unique user_id index that guarantees at
// most one profile per user.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

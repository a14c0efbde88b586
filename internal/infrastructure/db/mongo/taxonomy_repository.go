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

const (
	categoriesCollection = "categories"
	tagsCollection       = "tags"
)

// mongoTerm is the shared document shape for categories and tags: a
// unique name plus its derived slug.
type mongoTerm struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// termRepository holds the Mongo operations shared by both taxonomies.
type termRepository struct {
	coll     *mongo.Collection
	notFound error
}

func (r *termRepository) insert(ctx context.Context, t *mongoTerm) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateName
		}
		return "", fmt.Errorf("insert term: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *termRepository) update(ctx context.Context, id string, t *mongoTerm) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return r.notFound
	}

	update := bson.M{"$set": bson.M{
		"name":       t.Name,
		"slug":       t.Slug,
		"updated_at": t.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update term: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.notFound
	}
	return nil
}

func (r *termRepository) findByID(ctx context.Context, id string) (*mongoTerm, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, r.notFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *termRepository) findOne(ctx context.Context, filter bson.M) (*mongoTerm, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTerm
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("find term: %w", err)
	}
	return &mt, nil
}

// list returns all terms ordered by name, optionally filtered by slug.
func (r *termRepository) list(ctx context.Context, slug string) ([]*mongoTerm, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if slug != "" {
		query["slug"] = slug
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer cur.Close(ctx)

	var terms []*mongoTerm
	for cur.Next(ctx) {
		var mt mongoTerm
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode term: %w", err)
		}
		terms = append(terms, &mt)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}
	return terms, nil
}

func (r *termRepository) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// CategoryRepository implements ports.CategoryRepository on MongoDB.
type CategoryRepository struct {
	terms termRepository
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{terms: termRepository{
		coll:     db.Collection(categoriesCollection),
		notFound: domain.ErrCategoryNotFound,
	}}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	id, err := r.terms.insert(ctx, &mongoTerm{
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	created := *c
	created.ID = id
	return &created, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.terms.update(ctx, c.ID, &mongoTerm{Name: c.Name, Slug: c.Slug, UpdatedAt: c.UpdatedAt})
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	mt, err := r.terms.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategory(mt), nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	mt, err := r.terms.findOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return nil, err
	}
	return toCategory(mt), nil
}

func (r *CategoryRepository) List(ctx context.Context, slug string) ([]*domain.Category, error) {
	mts, err := r.terms.list(ctx, slug)
	if err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(mts))
	for _, mt := range mts {
		categories = append(categories, toCategory(mt))
	}
	return categories, nil
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	return r.terms.ensureIndexes(ctx)
}

func toCategory(mt *mongoTerm) *domain.Category {
	return &domain.Category{
		ID:        mt.ID.Hex(),
		Name:      mt.Name,
		Slug:      mt.Slug,
		CreatedAt: mt.CreatedAt,
		UpdatedAt: mt.UpdatedAt,
	}
}

// TagRepository implements ports.TagRepository on MongoDB.
type TagRepository struct {
	terms termRepository
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	return &TagRepository{terms: termRepository{
		coll:     db.Collection(tagsCollection),
		notFound: domain.ErrTagNotFound,
	}}
}

func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	id, err := r.terms.insert(ctx, &mongoTerm{
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	created := *t
	created.ID = id
	return &created, nil
}

func (r *TagRepository) Update(ctx context.Context, t *domain.Tag) error {
	return r.terms.update(ctx, t.ID, &mongoTerm{Name: t.Name, Slug: t.Slug, UpdatedAt: t.UpdatedAt})
}

func (r *TagRepository) FindByID(ctx context.Context, id string) (*domain.Tag, error) {
	mt, err := r.terms.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTag(mt), nil
}

func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	mt, err := r.terms.findOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return nil, err
	}
	return toTag(mt), nil
}

func (r *TagRepository) List(ctx context.Context, slug string) ([]*domain.Tag, error) {
	mts, err := r.terms.list(ctx, slug)
	if err != nil {
		return nil, err
	}
	tags := make([]*domain.Tag, 0, len(mts))
	for _, mt := range mts {
		tags = append(tags, toTag(mt))
	}
	return tags, nil
}

func (r *TagRepository) EnsureIndexes(ctx context.Context) error {
	return r.terms.ensureIndexes(ctx)
}

func toTag(mt *mongoTerm) *domain.Tag {
	return &domain.Tag{
		ID:        mt.ID.Hex(),
		Name:      mt.Name,
		Slug:      mt.Slug,
		CreatedAt: mt.CreatedAt,
		UpdatedAt: mt.UpdatedAt,
	}
}

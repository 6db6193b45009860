package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"surveyflow/internal/model"
)

// ErrNotFound is returned when updating a record that does not exist
var ErrNotFound = errors.New("not found")

// CatalogRepo stores host-authored catalogs
type CatalogRepo interface {
	Create(ctx context.Context, c *model.Catalog) (string, error)
	GetByID(ctx context.Context, id string) (*model.Catalog, error)
	GetByHostID(ctx context.Context, hostID string) ([]*model.Catalog, error)
	Update(ctx context.Context, c *model.Catalog) error
	Delete(ctx context.Context, id string) error
}

type catalogRepo struct {
	collection *mongo.Collection
}

// NewCatalogRepo creates a MongoDB-backed catalog repository
func NewCatalogRepo(db *mongo.Database) CatalogRepo {
	return &catalogRepo{
		collection: db.Collection("catalogs"),
	}
}

func (r *catalogRepo) Create(ctx context.Context, c *model.Catalog) (string, error) {
	c.ID = ""
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	c.ID = oid.Hex()
	return c.ID, nil
}

// GetByID returns nil, nil for unknown or malformed ids
func (r *catalogRepo) GetByID(ctx context.Context, id string) (*model.Catalog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var c model.Catalog
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (r *catalogRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Catalog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hostId": hostID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var catalogs []*model.Catalog
	if err := cursor.All(ctx, &catalogs); err != nil {
		return nil, err
	}
	return catalogs, nil
}

func (r *catalogRepo) Update(ctx context.Context, c *model.Catalog) error {
	id := c.ID
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	// _id is immutable; keep it out of the replacement document.
	c.ID = ""
	c.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, c)
	c.ID = id
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type memoryCatalogRepo struct {
	mu       sync.RWMutex
	catalogs map[string]model.Catalog
}

// NewMemoryCatalogRepo creates a catalog repository held in process memory
func NewMemoryCatalogRepo() CatalogRepo {
	return &memoryCatalogRepo{catalogs: make(map[string]model.Catalog)}
}

func (r *memoryCatalogRepo) Create(ctx context.Context, c *model.Catalog) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.catalogs[c.ID] = *c
	return c.ID, nil
}

func (r *memoryCatalogRepo) GetByID(ctx context.Context, id string) (*model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.catalogs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memoryCatalogRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Catalog
	for _, c := range r.catalogs {
		if c.HostID == hostID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryCatalogRepo) Update(ctx context.Context, c *model.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalogs[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.catalogs[c.ID] = *c
	return nil
}

func (r *memoryCatalogRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.catalogs, id)
	return nil
}

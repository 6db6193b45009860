package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/model"
)

// ProgressRepo is the persistence endpoint for answer snapshots. One record
// per session; each save replaces the previous one.
type ProgressRepo interface {
	SaveProgress(ctx context.Context, p *model.Progress) error
	GetProgress(ctx context.Context, sessionID string) (*model.Progress, error)
}

type progressRepo struct {
	collection *mongo.Collection
}

// NewProgressRepo creates a MongoDB-backed progress repository
func NewProgressRepo(db *mongo.Database) ProgressRepo {
	return &progressRepo{
		collection: db.Collection("progress"),
	}
}

func (r *progressRepo) SaveProgress(ctx context.Context, p *model.Progress) error {
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionId": p.SessionID}, p, opts)
	return err
}

func (r *progressRepo) GetProgress(ctx context.Context, sessionID string) (*model.Progress, error) {
	var p model.Progress
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type memoryProgressRepo struct {
	delay time.Duration

	mu      sync.RWMutex
	records map[string]model.Progress
}

// NewMemoryProgressRepo creates an in-process progress repository. Each save
// waits delay before completing, standing in for a remote endpoint.
func NewMemoryProgressRepo(delay time.Duration) ProgressRepo {
	return &memoryProgressRepo{
		delay:   delay,
		records: make(map[string]model.Progress),
	}
}

func (r *memoryProgressRepo) SaveProgress(ctx context.Context, p *model.Progress) error {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}

	rec := *p
	rec.Answers = append([]model.Answer(nil), p.Answers...)

	r.mu.Lock()
	r.records[p.SessionID] = rec
	r.mu.Unlock()
	return nil
}

func (r *memoryProgressRepo) GetProgress(ctx context.Context, sessionID string) (*model.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[sessionID]
	if !ok {
		return nil, nil
	}
	rec.Answers = append([]model.Answer(nil), rec.Answers...)
	return &rec, nil
}

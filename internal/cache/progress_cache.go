package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"surveyflow/internal/model"
)

// ProgressBoardCache handles Redis ZSET operations for a catalog's progress
// board, scored by completed theme count
type ProgressBoardCache interface {
	UpdateCompleted(ctx context.Context, catalogID, sessionID string, completed int) error
	GetTop(ctx context.Context, catalogID string, limit int) ([]model.ProgressEntry, error)
	GetRank(ctx context.Context, catalogID, sessionID string) (int64, error)
}

type progressBoardCache struct {
	client *redis.Client
}

// NewProgressBoardCache creates a new progress board cache
func NewProgressBoardCache(client *redis.Client) ProgressBoardCache {
	return &progressBoardCache{
		client: client,
	}
}

func (c *progressBoardCache) key(catalogID string) string {
	return fmt.Sprintf("catalog:%s:progress", catalogID)
}

func (c *progressBoardCache) UpdateCompleted(ctx context.Context, catalogID, sessionID string, completed int) error {
	return c.client.ZAdd(ctx, c.key(catalogID), redis.Z{
		Score:  float64(completed),
		Member: sessionID,
	}).Err()
}

func (c *progressBoardCache) GetTop(ctx context.Context, catalogID string, limit int) ([]model.ProgressEntry, error) {
	if limit <= 0 {
		return []model.ProgressEntry{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(catalogID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.ProgressEntry, len(results))
	for i, z := range results {
		entries[i] = model.ProgressEntry{
			SessionID:       z.Member.(string),
			CompletedThemes: int(z.Score),
			Rank:            i + 1,
		}
	}
	return entries, nil
}

// GetRank returns the 1-indexed rank, or -1 when the session is not on the board
func (c *progressBoardCache) GetRank(ctx context.Context, catalogID, sessionID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(catalogID), sessionID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}

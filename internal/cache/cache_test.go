package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/model"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	c := NewSessionCache(client, time.Hour)

	state := &model.SessionState{
		ID:           "s1",
		CatalogID:    model.DefaultCatalogID,
		CurrentTheme: "professional",
		Completed:    map[string]bool{"personal": true},
		Answers:      []model.Answer{{QuestionID: "q2", Answer: "Grow"}, {QuestionID: "q1", Answer: "No"}},
	}
	require.NoError(t, c.Set(ctx, state))
	assert.True(t, mr.Exists("session:s1"))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.CurrentTheme, got.CurrentTheme)
	assert.Equal(t, state.Completed, got.Completed)
	assert.Equal(t, state.Answers, got.Answers)

	require.NoError(t, c.Delete(ctx, "s1"))
	got, err = c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	c := NewSessionCache(client, time.Minute)

	require.NoError(t, c.Set(ctx, &model.SessionState{ID: "s1"}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheRedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	c := NewSessionCache(client, time.Minute)
	mr.Close()

	_, err := c.Get(context.Background(), "s1")
	assert.Error(t, err)
}

func TestProgressBoard(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	b := NewProgressBoardCache(client)

	require.NoError(t, b.UpdateCompleted(ctx, "cat", "s1", 1))
	require.NoError(t, b.UpdateCompleted(ctx, "cat", "s2", 3))
	require.NoError(t, b.UpdateCompleted(ctx, "cat", "s3", 2))
	require.NoError(t, b.UpdateCompleted(ctx, "other", "s9", 5))

	top, err := b.GetTop(ctx, "cat", 2)
	require.NoError(t, err)
	assert.Equal(t, []model.ProgressEntry{
		{SessionID: "s2", CompletedThemes: 3, Rank: 1},
		{SessionID: "s3", CompletedThemes: 2, Rank: 2},
	}, top)

	rank, err := b.GetRank(ctx, "cat", "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rank)

	rank, err = b.GetRank(ctx, "cat", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)

	// A later update replaces the score.
	require.NoError(t, b.UpdateCompleted(ctx, "cat", "s1", 4))
	top, err = b.GetTop(ctx, "cat", 1)
	require.NoError(t, err)
	assert.Equal(t, "s1", top[0].SessionID)
}

func TestProgressBoardEmpty(t *testing.T) {
	_, client := newTestClient(t)
	b := NewProgressBoardCache(client)

	top, err := b.GetTop(context.Background(), "cat", 10)
	require.NoError(t, err)
	assert.Empty(t, top)

	top, err = b.GetTop(context.Background(), "cat", 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

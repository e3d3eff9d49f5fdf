package feed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/run-write/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) (*Index, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewIndex(rdb), mr
}

func at(ms int64) time.Time { return time.UnixMilli(ms) }

func TestIndexAddAndOrder(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "p1", models.PinNone, at(1000)))
	require.NoError(t, idx.Add(ctx, "p2", models.PinNone, at(3000)))
	require.NoError(t, idx.Add(ctx, "p3", models.PinNone, at(2000)))

	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3", "p1"}, ids)
}

func TestIndexTiersOrderBeforeScore(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "old-announcement", models.PinAnnouncement, at(100)))
	require.NoError(t, idx.Add(ctx, "fav", models.PinFavorite, at(5000)))
	require.NoError(t, idx.Add(ctx, "fresh", models.PinNone, at(9000)))

	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"old-announcement", "fav", "fresh"}, ids)
}

func TestIndexRepublishKeepsScore(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "p1", models.PinNone, at(1000)))
	require.NoError(t, idx.Add(ctx, "p2", models.PinNone, at(2000)))
	// Republish p1 much later: its position must not change.
	require.NoError(t, idx.Add(ctx, "p1", models.PinNone, at(99999)))

	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
}

func TestIndexRemoveIdempotent(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "p1", models.PinFavorite, at(1000)))
	require.NoError(t, idx.Remove(ctx, "p1"))
	require.NoError(t, idx.Remove(ctx, "p1"))

	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexSetTierPreservesScore(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "p1", models.PinNone, at(1000)))
	require.NoError(t, idx.Add(ctx, "p2", models.PinNone, at(2000)))

	require.NoError(t, idx.SetTier(ctx, "p1", models.PinAnnouncement))
	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	// Back to none: score preserved, so p2 is newer again.
	require.NoError(t, idx.SetTier(ctx, "p1", models.PinNone))
	ids, err = idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
}

func TestIndexBumpMovesToTop(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "p1", models.PinNone, at(1000)))
	require.NoError(t, idx.Add(ctx, "p2", models.PinNone, at(2000)))

	require.NoError(t, idx.Bump(ctx, "p1"))
	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

func TestIndexLimit(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "a", models.PinAnnouncement, at(100)))
	for i, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, idx.Add(ctx, id, models.PinNone, at(int64(1000+i))))
	}

	ids, err := idx.IDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "n3"}, ids)
}

func TestIndexRebuild(t *testing.T) {
	idx, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "stale", models.PinNone, at(1000)))

	err := idx.Rebuild(ctx, []Member{
		{PostID: "p1", Tier: models.PinFavorite, PublishedAt: at(1000)},
		{PostID: "p2", Tier: models.PinNone, PublishedAt: at(2000)},
	})
	require.NoError(t, err)

	ids, err := idx.IDs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

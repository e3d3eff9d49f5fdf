package feed

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/run-write/core/internal/models"
)

// Tier sorted sets, member = post ID, score = first-publish unix millis.
// Announcements render above favorites, favorites above everything else.
const (
	keyAnnouncement = "rw:feed:announcement"
	keyFavorite     = "rw:feed:favorite"
	keyNone         = "rw:feed:none"
)

var tierKeys = []string{keyAnnouncement, keyFavorite, keyNone}

func keyFor(tier models.PinType) string {
	switch tier {
	case models.PinAnnouncement:
		return keyAnnouncement
	case models.PinFavorite:
		return keyFavorite
	default:
		return keyNone
	}
}

// Index maintains the feed ordering in Redis. Every mutation is idempotent
// by member, so replays and races converge to the same state.
type Index struct {
	rdb *redis.Client
}

func NewIndex(rdb *redis.Client) *Index { return &Index{rdb: rdb} }

// Add inserts a post into its tier. ZADD NX keeps the original score on
// republish; only Bump moves a post back to the top.
func (i *Index) Add(ctx context.Context, postID string, tier models.PinType, publishedAt time.Time) error {
	return i.rdb.ZAddNX(ctx, keyFor(tier), redis.Z{
		Score:  float64(publishedAt.UnixMilli()),
		Member: postID,
	}).Err()
}

// Remove deletes a post from every tier.
func (i *Index) Remove(ctx context.Context, postID string) error {
	pipe := i.rdb.Pipeline()
	for _, key := range tierKeys {
		pipe.ZRem(ctx, key, postID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// SetTier moves a post to the given tier, preserving its score. A post the
// index has never seen gets the current time as its score.
func (i *Index) SetTier(ctx context.Context, postID string, tier models.PinType) error {
	score := float64(time.Now().UnixMilli())
	for _, key := range tierKeys {
		s, err := i.rdb.ZScore(ctx, key, postID).Result()
		if err == nil {
			score = s
			break
		}
		if err != redis.Nil {
			return err
		}
	}

	pipe := i.rdb.Pipeline()
	for _, key := range tierKeys {
		if key != keyFor(tier) {
			pipe.ZRem(ctx, key, postID)
		}
	}
	pipe.ZAdd(ctx, keyFor(tier), redis.Z{Score: score, Member: postID})
	_, err := pipe.Exec(ctx)
	return err
}

// Bump refreshes a post's score to now within its current tier.
func (i *Index) Bump(ctx context.Context, postID string) error {
	now := float64(time.Now().UnixMilli())
	for _, key := range tierKeys {
		_, err := i.rdb.ZScore(ctx, key, postID).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return err
		}
		return i.rdb.ZAdd(ctx, key, redis.Z{Score: now, Member: postID}).Err()
	}
	return nil
}

// IDs returns up to limit post IDs: announcement tier first, then favorite,
// then none, each newest-first.
func (i *Index) IDs(ctx context.Context, limit int) ([]string, error) {
	out := make([]string, 0, limit)
	for _, key := range tierKeys {
		if len(out) >= limit {
			break
		}
		ids, err := i.rdb.ZRevRange(ctx, key, 0, int64(limit-len(out)-1)).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return out, nil
}

// Member is one post in a rebuilt index.
type Member struct {
	PostID      string
	Tier        models.PinType
	PublishedAt time.Time
}

// Rebuild atomically replaces the whole index from the given members. Used
// by reconciliation to re-derive membership from the posts table.
func (i *Index) Rebuild(ctx context.Context, members []Member) error {
	pipe := i.rdb.TxPipeline()
	pipe.Del(ctx, tierKeys...)
	for _, m := range members {
		pipe.ZAdd(ctx, keyFor(m.Tier), redis.Z{
			Score:  float64(m.PublishedAt.UnixMilli()),
			Member: m.PostID,
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

package publish

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/run-write/core/internal/database"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEnv(t *testing.T) (*gorm.DB, *feed.Index, *Service) {
	t.Helper()
	// A named shared-cache DB keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	idx := feed.NewIndex(rdb)
	return db, idx, NewService(db, idx, zap.NewNop())
}

func makeUser(t *testing.T, db *gorm.DB) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Provider: "github", ProviderUID: uuid.NewString(), Name: "writer"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestPublishCreatesPostAndFeedEntry(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	post, err := svc.Publish(ctx, u.ID, "2026-08-01", "hello world", 2)
	require.NoError(t, err)
	assert.Equal(t, models.PinNone, post.PinType)
	assert.Equal(t, u.ID+"-2026-08-01", post.Slug)

	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, ids)
}

func TestRepublishKeepsIdentityAndPosition(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	first, err := svc.Publish(ctx, u.ID, "2026-08-01", "draft one", 2)
	require.NoError(t, err)
	firstPublishedAt := first.PublishedAt

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Publish(ctx, u.ID, "2026-08-01", "draft one, revised", 4)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, "draft one, revised", second.Text)
	assert.WithinDuration(t, firstPublishedAt, second.PublishedAt, time.Millisecond)

	// Exactly one feed entry, still at the original position.
	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, ids)
}

func TestUnpublishRemovesPostAndEntry(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	post, err := svc.Publish(ctx, u.ID, "2026-08-01", "bye", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Unpublish(ctx, u.ID, "2026-08-01"))

	var count int64
	require.NoError(t, db.Model(&models.PostModel{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)

	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.ErrorIs(t, svc.Unpublish(ctx, u.ID, "2026-08-01"), ErrPostNotFound)
}

func TestUnpublishFlipsDraftFlag(t *testing.T) {
	db, _, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	entry := models.DraftEntry{UserID: u.ID, Date: "2026-08-01", Text: "bye", WordCount: 1, Published: true}
	require.NoError(t, db.Create(&entry).Error)

	_, err := svc.Publish(ctx, u.ID, "2026-08-01", "bye", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Unpublish(ctx, u.ID, "2026-08-01"))

	var reloaded models.DraftEntry
	require.NoError(t, db.First(&reloaded, "id = ?", entry.ID).Error)
	assert.False(t, reloaded.Published)
}

func TestRepublishAfterUnpublish(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	first, err := svc.Publish(ctx, u.ID, "2026-08-01", "morning pages", 2)
	require.NoError(t, err)
	require.NoError(t, svc.Unpublish(ctx, u.ID, "2026-08-01"))

	// The day can be published again: same slug, one post row, one feed entry.
	second, err := svc.Publish(ctx, u.ID, "2026-08-01", "morning pages, take two", 4)
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)

	var count int64
	require.NoError(t, db.Model(&models.PostModel{}).
		Where("user_id = ? AND date = ?", u.ID, "2026-08-01").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids)
}

func TestRepublishAfterModerationDelete(t *testing.T) {
	db, _, svc := newTestEnv(t)
	u := makeUser(t, db)
	ctx := context.Background()

	post, err := svc.Publish(ctx, u.ID, "2026-08-01", "taken down", 2)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, post.ID))

	again, err := svc.Publish(ctx, u.ID, "2026-08-01", "cleaned up", 2)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, again.Slug)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.PostModel{}).
		Where("user_id = ? AND date = ?", u.ID, "2026-08-01").
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "no soft-deleted row may linger on the unique index")
}

func TestSetPinMovesTier(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	u := makeUser(t, db)
	other := makeUser(t, db)
	ctx := context.Background()

	old, err := svc.Publish(ctx, u.ID, "2026-08-01", "old", 1)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	fresh, err := svc.Publish(ctx, other.ID, "2026-08-01", "fresh", 1)
	require.NoError(t, err)

	// Pinning the older post lifts it above the newer one.
	require.NoError(t, svc.SetPin(ctx, old.ID, models.PinAnnouncement))

	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{old.ID, fresh.ID}, ids)

	var reloaded models.PostModel
	require.NoError(t, db.First(&reloaded, "id = ?", old.ID).Error)
	assert.Equal(t, models.PinAnnouncement, reloaded.PinType)

	assert.ErrorIs(t, svc.SetPin(ctx, "no-such-post", models.PinFavorite), ErrPostNotFound)
}

func TestRemoveUserPostsLeavesOthersAlone(t *testing.T) {
	db, idx, svc := newTestEnv(t)
	banned := makeUser(t, db)
	bystander := makeUser(t, db)
	ctx := context.Background()

	for _, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		_, err := svc.Publish(ctx, banned.ID, date, "text", 1)
		require.NoError(t, err)
	}
	keep, err := svc.Publish(ctx, bystander.ID, "2026-08-02", "keep me", 2)
	require.NoError(t, err)

	removed, err := svc.RemoveUserPosts(ctx, banned.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	ids, err := idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids)

	var count int64
	require.NoError(t, db.Model(&models.PostModel{}).Where("user_id = ?", banned.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRemovesLikes(t *testing.T) {
	db, _, svc := newTestEnv(t)
	u := makeUser(t, db)
	fan := makeUser(t, db)
	ctx := context.Background()

	post, err := svc.Publish(ctx, u.ID, "2026-08-01", "text", 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.LikeModel{UserID: fan.ID, PostID: post.ID}).Error)

	require.NoError(t, svc.Delete(ctx, post.ID))

	var count int64
	require.NoError(t, db.Model(&models.LikeModel{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}

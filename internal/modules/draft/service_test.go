package draft

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/run-write/core/internal/database"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/feed"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/modules/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db  *gorm.DB
	gam *gamification.Service
	svc *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log := zap.NewNop()
	gam := gamification.NewService(db, log)
	pub := publish.NewService(db, feed.NewIndex(rdb), log)
	return &testEnv{db: db, gam: gam, svc: NewService(db, gam, pub, log)}
}

func (e *testEnv) makeUser(t *testing.T) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Provider: "github", ProviderUID: uuid.NewString(), Name: "writer"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func today() string { return time.Now().Format("2006-01-02") }

func TestSaveCountsWordsAndStartsStreak(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	result, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{
		Date: today(),
		Text: words(200),
	})
	require.NoError(t, err)

	assert.Equal(t, 200, result.WordCount)
	assert.Equal(t, 1, result.Streak)
	names := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "first_step")
}

func TestSaveRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	_, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{Date: "08/01/2026", Text: "hi"})
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestSaveRejectsBannedUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)
	require.NoError(t, env.db.Model(u).Update("is_banned", true).Error)

	_, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{Date: today(), Text: "hi"})
	assert.ErrorIs(t, err, models.ErrBanned)
}

func TestWordTotalDoesNotDriftAcrossEdits(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)
	ctx := context.Background()

	// Repeated edits of the same day must replace the day's count, not
	// accumulate it.
	for _, n := range []int{300, 50, 175} {
		_, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(n)})
		require.NoError(t, err)
	}

	stats, err := env.gam.Stats(u.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(175), stats.TotalWords)
}

func TestCompletedDaySurvivesShrinkingEdit(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)
	ctx := context.Background()

	_, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(160)})
	require.NoError(t, err)

	result, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(20)})
	require.NoError(t, err)

	stats, err := env.gam.Stats(u.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completions)
	assert.Equal(t, 1, result.Streak)
}

func TestShortEntryDoesNotCompleteDay(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	result, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{Date: today(), Text: words(149)})
	require.NoError(t, err)

	stats, err := env.gam.Stats(u.ID, time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.Completions)
	assert.Zero(t, result.Streak)
}

func TestStreakRestartsAfterGap(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	// Two completed days followed by a multi-day gap.
	for _, daysAgo := range []int{5, 4} {
		date := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
		require.NoError(t, env.gam.RecordActivity(u.ID, date))
	}

	result, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{Date: today(), Text: words(160)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	for _, daysAgo := range []int{2, 1} {
		date := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
		require.NoError(t, env.gam.RecordActivity(u.ID, date))
	}

	result, err := env.svc.Save(context.Background(), u.ID, SaveDraftDTO{Date: today(), Text: words(160)})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)
}

func TestSavePublishToggle(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)
	ctx := context.Background()
	yes, no := true, false

	result, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(160), Published: &yes})
	require.NoError(t, err)
	assert.True(t, result.Published)

	var count int64
	require.NoError(t, env.db.Model(&models.PostModel{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	result, err = env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(160), Published: &no})
	require.NoError(t, err)
	assert.False(t, result.Published)

	require.NoError(t, env.db.Model(&models.PostModel{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetReturnsNilWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)

	entry, err := env.svc.Get(u.ID, today())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestBadgeNotRegrantedOnLaterSave(t *testing.T) {
	env := newTestEnv(t)
	u := env.makeUser(t)
	ctx := context.Background()

	first, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(160)})
	require.NoError(t, err)
	require.NotEmpty(t, first.NewBadges)

	second, err := env.svc.Save(ctx, u.ID, SaveDraftDTO{Date: today(), Text: words(161)})
	require.NoError(t, err)
	assert.Empty(t, second.NewBadges)
}

package admin

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
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/modules/publish"
	pkgcron "github.com/run-write/core/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type adminEnv struct {
	db    *gorm.DB
	idx   *feed.Index
	pub   *publish.Service
	sched *pkgcron.Scheduler
	svc   *Service
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	idx := feed.NewIndex(rdb)

	log := zap.NewNop()
	pub := publish.NewService(db, idx, log)
	feedSvc := feed.NewService(db, idx, log)
	gam := gamification.NewService(db, log)
	sched := pkgcron.New()
	return &adminEnv{
		db:    db,
		idx:   idx,
		pub:   pub,
		sched: sched,
		svc:   NewService(db, pub, feedSvc, gam, sched, log),
	}
}

func (e *adminEnv) makeUser(t *testing.T) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Provider: "github", ProviderUID: uuid.NewString(), Name: "writer"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func TestBanWithdrawsPostsAndRevokesSessions(t *testing.T) {
	env := newAdminEnv(t)
	target := env.makeUser(t)
	bystander := env.makeUser(t)
	ctx := context.Background()

	for _, date := range []string{"2026-08-01", "2026-08-02"} {
		_, err := env.pub.Publish(ctx, target.ID, date, "text", 1)
		require.NoError(t, err)
	}
	keep, err := env.pub.Publish(ctx, bystander.ID, "2026-08-01", "keep", 1)
	require.NoError(t, err)

	sess := models.UserSession{UserID: target.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, env.db.Create(&sess).Error)

	result, err := env.svc.BanUser(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PostsRemoved)

	var reloaded models.UserModel
	require.NoError(t, env.db.First(&reloaded, "id = ?", target.ID).Error)
	assert.True(t, reloaded.IsBanned)
	require.NotNil(t, reloaded.BannedAt)

	var reloadedSess models.UserSession
	require.NoError(t, env.db.First(&reloadedSess, "id = ?", sess.ID).Error)
	assert.NotNil(t, reloadedSess.RevokedAt)

	ids, err := env.idx.IDs(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, ids)
}

func TestBanUnknownUser(t *testing.T) {
	env := newAdminEnv(t)
	_, err := env.svc.BanUser(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnbanClearsFlagOnly(t *testing.T) {
	env := newAdminEnv(t)
	target := env.makeUser(t)
	ctx := context.Background()

	_, err := env.pub.Publish(ctx, target.ID, "2026-08-01", "text", 1)
	require.NoError(t, err)
	_, err = env.svc.BanUser(ctx, target.ID)
	require.NoError(t, err)

	require.NoError(t, env.svc.UnbanUser(target.ID))

	var reloaded models.UserModel
	require.NoError(t, env.db.First(&reloaded, "id = ?", target.ID).Error)
	assert.False(t, reloaded.IsBanned)
	assert.Nil(t, reloaded.BannedAt)

	// Withdrawn posts stay withdrawn.
	var count int64
	require.NoError(t, env.db.Model(&models.PostModel{}).Where("user_id = ?", target.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGrantBadgeRules(t *testing.T) {
	env := newAdminEnv(t)
	target := env.makeUser(t)

	fresh, err := env.svc.GrantBadge(GrantBadgeDTO{UserID: target.ID, Badge: "founder"})
	require.NoError(t, err)
	assert.True(t, fresh)

	// Granting again is a no-op, not an error.
	fresh, err = env.svc.GrantBadge(GrantBadgeDTO{UserID: target.ID, Badge: "founder"})
	require.NoError(t, err)
	assert.False(t, fresh)

	_, err = env.svc.GrantBadge(GrantBadgeDTO{UserID: target.ID, Badge: "seven_day_streak"})
	assert.ErrorIs(t, err, ErrRuleBadge)

	_, err = env.svc.GrantBadge(GrantBadgeDTO{UserID: target.ID, Badge: "does_not_exist"})
	assert.ErrorIs(t, err, ErrUnknownBadge)

	_, err = env.svc.GrantBadge(GrantBadgeDTO{UserID: "no-such-user", Badge: "founder"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestJobsSurface(t *testing.T) {
	env := newAdminEnv(t)
	ran := make(chan struct{}, 1)
	env.sched.Register(pkgcron.Job{
		Name:        "feed_reconcile",
		Description: "Rebuild the feed index from the posts table",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})

	infos := env.svc.Jobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "feed_reconcile", infos[0].Name)
	assert.Equal(t, pkgcron.StatusIdle, infos[0].Status)

	require.NoError(t, env.svc.RunJob(context.Background(), "feed_reconcile"))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}

	err := env.svc.RunJob(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-job")
}

package like

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/run-write/core/internal/database"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*gorm.DB, *gamification.Service, *Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := zap.NewNop()
	gam := gamification.NewService(db, log)
	return db, gam, NewService(db, gam, log)
}

func makeUser(t *testing.T, db *gorm.DB) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Provider: "github", ProviderUID: uuid.NewString(), Name: "writer"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makePost(t *testing.T, db *gorm.DB, owner *models.UserModel) *models.PostModel {
	t.Helper()
	p := &models.PostModel{
		UserID: owner.ID,
		Date:   "2026-08-01",
		Slug:   owner.ID + "-2026-08-01",
		Text:   "hello",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestToggleOnAndOff(t *testing.T) {
	db, _, svc := newTestService(t)
	owner := makeUser(t, db)
	fan := makeUser(t, db)
	post := makePost(t, db, owner)

	result, err := svc.Toggle(fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)

	result, err = svc.Toggle(fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Zero(t, result.LikeCount)

	// A full on-off-on cycle lands back at liked.
	result, err = svc.Toggle(fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)
}

func TestToggleUnknownPost(t *testing.T) {
	db, _, svc := newTestService(t)
	fan := makeUser(t, db)

	_, err := svc.Toggle(fan.ID, "no-such-post")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleRejectsBannedUser(t *testing.T) {
	db, _, svc := newTestService(t)
	owner := makeUser(t, db)
	fan := makeUser(t, db)
	post := makePost(t, db, owner)
	require.NoError(t, db.Model(fan).Update("is_banned", true).Error)

	_, err := svc.Toggle(fan.ID, post.ID)
	assert.ErrorIs(t, err, models.ErrBanned)
}

func TestTenthLikeGrantsLovedToOwnerOnce(t *testing.T) {
	db, _, svc := newTestService(t)
	owner := makeUser(t, db)
	post := makePost(t, db, owner)

	var lastFan *models.UserModel
	for i := 0; i < 10; i++ {
		fan := makeUser(t, db)
		lastFan = fan
		result, err := svc.Toggle(fan.ID, post.ID)
		require.NoError(t, err)
		require.True(t, result.Liked)
	}

	badgeCount := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.BadgeModel{}).
			Where("user_id = ? AND name = ?", owner.ID, "loved").
			Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), badgeCount())

	// Unlike and re-like around the threshold must not duplicate the badge,
	// and must not revoke it either.
	_, err := svc.Toggle(lastFan.ID, post.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(lastFan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), badgeCount())
}

func TestNinthLikeGrantsNothing(t *testing.T) {
	db, _, svc := newTestService(t)
	owner := makeUser(t, db)
	post := makePost(t, db, owner)

	for i := 0; i < 9; i++ {
		fan := makeUser(t, db)
		_, err := svc.Toggle(fan.ID, post.ID)
		require.NoError(t, err)
	}

	var n int64
	require.NoError(t, db.Model(&models.BadgeModel{}).
		Where("user_id = ? AND name = ?", owner.ID, "loved").
		Count(&n).Error)
	assert.Zero(t, n)
}

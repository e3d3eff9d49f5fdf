package admin

import (
	"context"
	"time"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/feed"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/modules/publish"
	pkgcron "github.com/run-write/core/internal/pkg/cron"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
	"github.com/run-write/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	pub   *publish.Service
	feed  *feed.Service
	gam   *gamification.Service
	sched *pkgcron.Scheduler
	log   *zap.Logger
}

func NewService(db *gorm.DB, pub *publish.Service, feedSvc *feed.Service, gam *gamification.Service, sched *pkgcron.Scheduler, log *zap.Logger) *Service {
	return &Service{db: db, pub: pub, feed: feedSvc, gam: gam, sched: sched, log: log}
}

// SetPin moves a post between pin tiers.
func (s *Service) SetPin(ctx context.Context, postID string, tier models.PinType) error {
	return s.pub.SetPin(ctx, postID, tier)
}

// DeletePost removes a single post and its feed entry.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	return s.pub.Delete(ctx, postID)
}

// BanUser flags the account and cascades: sessions are revoked and every
// published post is withdrawn. The flag write is the primary effect; the
// cascade continues best effort and is logged when it trips.
func (s *Service) BanUser(ctx context.Context, userID string) (*BanResult, error) {
	now := time.Now()
	res := s.db.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_banned": true,
			"banned_at": &now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	if err := session.RevokeAll(s.db, userID); err != nil {
		s.log.Error("session revoke failed", zap.String("user", userID), zap.Error(err))
	}

	removed, err := s.pub.RemoveUserPosts(ctx, userID)
	if err != nil {
		s.log.Error("ban cascade incomplete",
			zap.String("user", userID), zap.Int("removed", removed), zap.Error(err))
	}

	s.log.Info("user banned", zap.String("user", userID), zap.Int("posts_removed", removed))
	return &BanResult{UserID: userID, PostsRemoved: removed}, nil
}

// UnbanUser clears the ban flag. Withdrawn posts stay withdrawn; the user
// can republish from their drafts.
func (s *Service) UnbanUser(userID string) error {
	res := s.db.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_banned": false,
			"banned_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.log.Info("user unbanned", zap.String("user", userID))
	return nil
}

// Users lists accounts, newest first.
func (s *Service) Users(q pagination.Query) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.Model(&models.UserModel{}).Order("created_at DESC")
	var users []models.UserModel
	pag, err := pagination.Paginate(tx, q, &users)
	return users, pag, err
}

// GrantBadge hands out an admin badge. Rule badges cannot be granted by
// hand; they only unlock through stats evaluation.
func (s *Service) GrantBadge(dto GrantBadgeDTO) (bool, error) {
	badge, ok := gamification.Lookup(dto.Badge)
	if !ok {
		return false, ErrUnknownBadge
	}
	if badge.Check != nil {
		return false, ErrRuleBadge
	}

	var count int64
	if err := s.db.Model(&models.UserModel{}).
		Where("id = ?", dto.UserID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrUserNotFound
	}

	fresh, err := s.gam.Grant(dto.UserID, badge.Name)
	if err != nil {
		return false, err
	}
	if fresh {
		s.log.Info("badge granted",
			zap.String("user", dto.UserID), zap.String("badge", badge.Name))
	}
	return fresh, nil
}

// ReconcileFeed rebuilds the feed index from the posts table and returns
// the number of indexed posts.
func (s *Service) ReconcileFeed(ctx context.Context) (int, error) {
	return s.feed.Reconcile(ctx)
}

// Jobs lists the background maintenance jobs and their last outcomes.
func (s *Service) Jobs() []pkgcron.JobInfo {
	return s.sched.List()
}

// RunJob starts a maintenance job ahead of its schedule.
func (s *Service) RunJob(ctx context.Context, name string) error {
	return s.sched.Run(ctx, name)
}

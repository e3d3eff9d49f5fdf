package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/feed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// Service keeps published posts and the feed index in lockstep: every post
// row change is paired with the matching index mutation, and both sides are
// idempotent so reconciliation can repair a half-applied pair.
type Service struct {
	db  *gorm.DB
	idx *feed.Index
	log *zap.Logger
}

func NewService(db *gorm.DB, idx *feed.Index, log *zap.Logger) *Service {
	return &Service{db: db, idx: idx, log: log}
}

// Publish upserts the post for (user, date) from the current draft text and
// adds it to the feed. Republishing refreshes content but keeps the post's
// identity, pin tier, and feed position.
func (s *Service) Publish(ctx context.Context, userID, date, text string, wordCount int) (*models.PostModel, error) {
	var post models.PostModel
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&post).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"text":       text,
			"word_count": wordCount,
		}
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, err
		}
		post.Text = text
		post.WordCount = wordCount
	case errors.Is(err, gorm.ErrRecordNotFound):
		post = models.PostModel{
			UserID:      userID,
			Date:        date,
			Slug:        fmt.Sprintf("%s-%s", userID, date),
			Text:        text,
			WordCount:   wordCount,
			PinType:     models.PinNone,
			PublishedAt: time.Now(),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// Secondary effect: index add failure degrades, reconcile repairs.
	if err := s.idx.Add(ctx, post.ID, post.PinType, post.PublishedAt); err != nil {
		s.log.Error("feed index add failed",
			zap.String("post", post.ID), zap.Error(err))
	}
	return &post, nil
}

// Unpublish removes the post for (user, date) and its feed entry. Returns
// ErrPostNotFound when nothing was published.
func (s *Service) Unpublish(ctx context.Context, userID, date string) error {
	var post models.PostModel
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	return s.remove(ctx, &post)
}

// Delete removes a single post by ID (moderation path) and flips the
// owner's draft back to unpublished.
func (s *Service) Delete(ctx context.Context, postID string) error {
	var post models.PostModel
	err := s.db.First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	return s.remove(ctx, &post)
}

// RemoveUserPosts deletes every post a user has published, walking the
// indexed user_id column rather than scanning the feed. Used by the ban
// cascade.
func (s *Service) RemoveUserPosts(ctx context.Context, userID string) (int, error) {
	var posts []models.PostModel
	if err := s.db.Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return 0, err
	}
	removed := 0
	for i := range posts {
		if err := s.remove(ctx, &posts[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SetPin moves a post to a pin tier. The post row is authoritative; the
// index move preserves the feed score.
func (s *Service) SetPin(ctx context.Context, postID string, tier models.PinType) error {
	res := s.db.Model(&models.PostModel{}).
		Where("id = ?", postID).
		Update("pin_type", tier)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	if err := s.idx.SetTier(ctx, postID, tier); err != nil {
		s.log.Error("feed tier move failed",
			zap.String("post", postID), zap.Error(err))
	}
	return nil
}

// Bump refreshes a post's feed position to now.
func (s *Service) Bump(ctx context.Context, postID string) error {
	return s.idx.Bump(ctx, postID)
}

func (s *Service) remove(ctx context.Context, post *models.PostModel) error {
	// Hard delete: a soft-deleted row would keep holding the unique slug and
	// (user, date) index values and block a later republish.
	if err := s.db.Unscoped().Delete(post).Error; err != nil {
		return err
	}
	if err := s.db.Unscoped().Where("post_id = ?", post.ID).Delete(&models.LikeModel{}).Error; err != nil {
		s.log.Error("like cleanup failed", zap.String("post", post.ID), zap.Error(err))
	}
	if err := s.db.Model(&models.DraftEntry{}).
		Where("user_id = ? AND date = ?", post.UserID, post.Date).
		Update("published", false).Error; err != nil {
		s.log.Error("draft unpublish flag failed",
			zap.String("user", post.UserID), zap.String("date", post.Date), zap.Error(err))
	}
	if err := s.idx.Remove(ctx, post.ID); err != nil {
		s.log.Error("feed index remove failed",
			zap.String("post", post.ID), zap.Error(err))
	}
	return nil
}

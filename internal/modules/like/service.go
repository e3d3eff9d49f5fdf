package like

import (
	"errors"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/gamification"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	gam *gamification.Service
	log *zap.Logger
}

func NewService(db *gorm.DB, gam *gamification.Service, log *zap.Logger) *Service {
	return &Service{db: db, gam: gam, log: log}
}

// Toggle flips the caller's like on a post and returns the new state with
// a fresh count. The count is always a COUNT over like rows, never a
// maintained counter, so repeated toggles cannot drift it.
func (s *Service) Toggle(userID, postID string) (*ToggleResult, error) {
	var user models.UserModel
	if err := s.db.Select("id", "is_banned").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, models.ErrBanned
	}

	var post models.PostModel
	err := s.db.Select("id", "user_id").First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	liked, err := s.flip(userID, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.Count(postID)
	if err != nil {
		return nil, err
	}

	// Secondary effect: the like itself stands even if the badge grant fails.
	if liked && count >= gamification.LovedThreshold {
		if _, err := s.gam.Grant(post.UserID, "loved"); err != nil {
			s.log.Error("loved badge grant failed",
				zap.String("user", post.UserID), zap.String("post", postID), zap.Error(err))
		}
	}

	return &ToggleResult{Liked: liked, LikeCount: count}, nil
}

// Count returns the number of likes on a post.
func (s *Service) Count(postID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.LikeModel{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// flip removes an existing like or inserts a new one. Likes are hard
// deleted so the unique (user, post) index stays free for a re-like.
func (s *Service) flip(userID, postID string) (bool, error) {
	res := s.db.Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.LikeModel{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	row := models.LikeModel{UserID: userID, PostID: postID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return false, err
	}
	return true, nil
}

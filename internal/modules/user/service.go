package user

import (
	"errors"
	"time"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/gamification"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const profilePostLimit = 30

type Service struct {
	db  *gorm.DB
	gam *gamification.Service
	log *zap.Logger
}

func NewService(db *gorm.DB, gam *gamification.Service, log *zap.Logger) *Service {
	return &Service{db: db, gam: gam, log: log}
}

// Stats recomputes the caller's dashboard numbers from source data.
func (s *Service) Stats(userID string, now time.Time) (*StatsResponse, error) {
	stats, err := s.gam.Stats(userID, now)
	if err != nil {
		return nil, err
	}

	badges, err := s.gam.Held(userID)
	if err != nil {
		s.log.Error("badge load failed", zap.String("user", userID), zap.Error(err))
		badges = []gamification.Badge{}
	}
	if badges == nil {
		badges = []gamification.Badge{}
	}

	return &StatsResponse{
		Streak:       stats.Streak,
		TotalWords:   stats.TotalWords,
		Completions:  stats.Completions,
		MaxPostLikes: stats.MaxPostLikes,
		Badges:       badges,
	}, nil
}

// Profile builds the public view of a writer. Banned users are invisible.
func (s *Service) Profile(userID string) (*Profile, error) {
	var u models.UserModel
	err := s.db.First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, ErrUserNotFound
	}

	badges, err := s.gam.Held(userID)
	if err != nil {
		s.log.Error("badge load failed", zap.String("user", userID), zap.Error(err))
		badges = []gamification.Badge{}
	}
	if badges == nil {
		badges = []gamification.Badge{}
	}

	var posts []models.PostModel
	if err := s.db.Where("user_id = ?", userID).
		Order("published_at DESC").
		Limit(profilePostLimit).
		Find(&posts).Error; err != nil {
		s.log.Error("profile post load failed", zap.String("user", userID), zap.Error(err))
		posts = nil
	}

	out := make([]ProfilePost, len(posts))
	for i, p := range posts {
		out[i] = ProfilePost{
			ID:          p.ID,
			Slug:        p.Slug,
			Date:        p.Date,
			Text:        p.Text,
			WordCount:   p.WordCount,
			PublishedAt: p.PublishedAt,
		}
	}

	return &Profile{
		ID:         u.ID,
		Name:       u.Name,
		Image:      u.Image,
		Joined:     u.CreatedAt,
		Streak:     u.Streak,
		TotalWords: u.TotalWords,
		Badges:     badges,
		Posts:      out,
	}, nil
}

// UpdateProfile changes the caller's display fields. Only provided fields
// are touched.
func (s *Service) UpdateProfile(userID string, dto UpdateProfileDTO) (*models.UserModel, error) {
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.UserModel{}).
			Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var u models.UserModel
	err := s.db.First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

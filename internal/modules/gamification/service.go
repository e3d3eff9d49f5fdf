package gamification

import (
	"time"

	"github.com/run-write/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionThreshold is the word count at which a day counts as completed.
const CompletionThreshold = 150

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// RecordActivity marks date as completed for the user. Adding the same day
// twice is a no-op; days are never removed even if a later edit drops the
// word count below the threshold.
func (s *Service) RecordActivity(userID, date string) error {
	day := models.ActivityDay{UserID: userID, Date: date}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&day).Error
}

// ActivityDates returns the user's completed days in ascending date order.
func (s *Service) ActivityDates(userID string) ([]string, error) {
	var dates []string
	err := s.db.Model(&models.ActivityDay{}).
		Where("user_id = ?", userID).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

// Stats recomputes the user's aggregate stats from source data. The word
// total is always a SUM over per-day counts, never an incremented counter.
func (s *Service) Stats(userID string, now time.Time) (Stats, error) {
	var stats Stats

	if err := s.db.Model(&models.ActivityDay{}).
		Where("user_id = ?", userID).
		Count(&stats.Completions).Error; err != nil {
		return stats, err
	}

	if err := s.db.Model(&models.DraftEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(word_count), 0)").
		Scan(&stats.TotalWords).Error; err != nil {
		return stats, err
	}

	dates, err := s.ActivityDates(userID)
	if err != nil {
		return stats, err
	}
	stats.Streak = Streak(dates, now)

	var maxLikes *int64
	err = s.db.Model(&models.LikeModel{}).
		Joins("JOIN posts ON posts.id = likes.post_id AND posts.deleted_at IS NULL").
		Where("posts.user_id = ? AND likes.deleted_at IS NULL", userID).
		Group("likes.post_id").
		Select("COUNT(*)").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&maxLikes).Error
	if err != nil {
		return stats, err
	}
	if maxLikes != nil {
		stats.MaxPostLikes = *maxLikes
	}

	return stats, nil
}

// SyncUser persists recomputed streak and word total onto the user row so
// profile reads stay cheap. The row values are a cache, not the source.
func (s *Service) SyncUser(userID string, stats Stats) error {
	return s.db.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"streak":      stats.Streak,
			"total_words": stats.TotalWords,
		}).Error
}

// EvaluateAndGrant unlocks every rule badge the stats now satisfy and
// returns only the badges that were actually new.
func (s *Service) EvaluateAndGrant(userID string, stats Stats) ([]Badge, error) {
	held, err := s.heldSet(userID)
	if err != nil {
		return nil, err
	}

	var unlocked []Badge
	for _, b := range Eligible(stats, held) {
		fresh, err := s.Grant(userID, b.Name)
		if err != nil {
			return unlocked, err
		}
		if fresh {
			s.log.Info("badge unlocked",
				zap.String("user", userID), zap.String("badge", b.Name))
			unlocked = append(unlocked, b)
		}
	}
	return unlocked, nil
}

// Grant idempotently adds a badge to the user's unlock set. Returns true
// only when the badge was not already held.
func (s *Service) Grant(userID, name string) (bool, error) {
	row := models.BadgeModel{UserID: userID, Name: name}
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Held returns the user's unlocked badges hydrated from the catalog.
func (s *Service) Held(userID string) ([]Badge, error) {
	var names []string
	err := s.db.Model(&models.BadgeModel{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}

	out := make([]Badge, 0, len(names))
	for _, n := range names {
		if b, ok := Lookup(n); ok {
			out = append(out, b)
		} else {
			out = append(out, Badge{Name: n, Title: n})
		}
	}
	return out, nil
}

func (s *Service) heldSet(userID string) (map[string]struct{}, error) {
	var names []string
	err := s.db.Model(&models.BadgeModel{}).
		Where("user_id = ?", userID).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	held := make(map[string]struct{}, len(names))
	for _, n := range names {
		held[n] = struct{}{}
	}
	return held, nil
}

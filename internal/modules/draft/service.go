package draft

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/modules/publish"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
	"github.com/run-write/core/internal/pkg/wordcount"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	gam *gamification.Service
	pub *publish.Service
	log *zap.Logger
}

func NewService(db *gorm.DB, gam *gamification.Service, pub *publish.Service, log *zap.Logger) *Service {
	return &Service{db: db, gam: gam, pub: pub, log: log}
}

// Save stores the user's writing for one day and runs the derived effects:
// word tally, activity ledger, streak, badges, and optionally publish.
// The draft write is the primary effect; everything after it degrades on
// failure instead of failing the save.
func (s *Service) Save(ctx context.Context, userID string, dto SaveDraftDTO) (*SaveResult, error) {
	date := strings.TrimSpace(dto.Date)
	if !dateRe.MatchString(date) {
		return nil, ErrDateFormat
	}

	var user models.UserModel
	if err := s.db.Select("id", "is_banned").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, models.ErrBanned
	}

	words := wordcount.Count(dto.Text)

	entry, err := s.upsertEntry(userID, date, dto.Text, words)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{WordCount: words, Published: entry.Published}

	// Activity is add-only: reaching the threshold marks the day, editing
	// back below it later does not unmark it.
	if words >= gamification.CompletionThreshold {
		if err := s.gam.RecordActivity(userID, date); err != nil {
			s.log.Error("activity record failed",
				zap.String("user", userID), zap.String("date", date), zap.Error(err))
		}
	}

	stats, err := s.gam.Stats(userID, time.Now())
	if err != nil {
		s.log.Error("stats recompute failed", zap.String("user", userID), zap.Error(err))
	} else {
		result.Streak = stats.Streak
		if err := s.gam.SyncUser(userID, stats); err != nil {
			s.log.Error("stats sync failed", zap.String("user", userID), zap.Error(err))
		}
		badges, err := s.gam.EvaluateAndGrant(userID, stats)
		if err != nil {
			s.log.Error("badge evaluation failed", zap.String("user", userID), zap.Error(err))
		}
		result.NewBadges = badges
	}

	if dto.Published != nil {
		published, err := s.setPublished(ctx, userID, date, dto.Text, words, *dto.Published)
		if err != nil {
			s.log.Error("publish toggle failed",
				zap.String("user", userID), zap.String("date", date), zap.Error(err))
		} else {
			result.Published = published
		}
	}

	return result, nil
}

// Get returns the user's draft for a day, or nil when none exists.
func (s *Service) Get(userID, date string) (*models.DraftEntry, error) {
	if !dateRe.MatchString(date) {
		return nil, ErrDateFormat
	}
	var entry models.DraftEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// History lists the user's writing days, newest first.
func (s *Service) History(userID string, q pagination.Query) ([]models.DraftEntry, response.Pagination, error) {
	tx := s.db.Model(&models.DraftEntry{}).
		Where("user_id = ?", userID).
		Order("date DESC")
	var entries []models.DraftEntry
	pag, err := pagination.Paginate(tx, q, &entries)
	return entries, pag, err
}

func (s *Service) upsertEntry(userID, date, text string, words int) (*models.DraftEntry, error) {
	var entry models.DraftEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"text":       text,
			"word_count": words,
		}
		if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
			return nil, err
		}
		entry.Text = text
		entry.WordCount = words
		return &entry, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.DraftEntry{UserID: userID, Date: date, Text: text, WordCount: words}
		if err := s.db.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	default:
		return nil, err
	}
}

func (s *Service) setPublished(ctx context.Context, userID, date, text string, words int, want bool) (bool, error) {
	if want {
		if _, err := s.pub.Publish(ctx, userID, date, text, words); err != nil {
			return false, err
		}
		err := s.db.Model(&models.DraftEntry{}).
			Where("user_id = ? AND date = ?", userID, date).
			Update("published", true).Error
		return true, err
	}

	err := s.pub.Unpublish(ctx, userID, date)
	if err != nil && !errors.Is(err, publish.ErrPostNotFound) {
		return false, err
	}
	err = s.db.Model(&models.DraftEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("published", false).Error
	return false, err
}

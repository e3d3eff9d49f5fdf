package prompt

import (
	"errors"
	"regexp"
	"time"

	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service serves the daily writing prompts. Prompts are written by the
// team ahead of time; a missing day is a normal condition, not an error
// the client should surface loudly.
type Service struct {
	db  *gorm.DB
	loc *time.Location
	log *zap.Logger
}

func NewService(db *gorm.DB, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, log: log}
}

// Today returns the prompt for the current day in the app timezone.
func (s *Service) Today() (*PromptResponse, error) {
	return s.ForDate(time.Now().In(s.loc).Format("2006-01-02"))
}

// ForDate returns the prompt for one day.
func (s *Service) ForDate(date string) (*PromptResponse, error) {
	if !dateRe.MatchString(date) {
		return nil, ErrDateFormat
	}
	var p models.PromptModel
	err := s.db.Where("date = ?", date).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPromptMissing
	}
	if err != nil {
		return nil, err
	}
	return &PromptResponse{Date: p.Date, Text: p.Text}, nil
}

// List returns prompts newest first.
func (s *Service) List(q pagination.Query) ([]PromptResponse, response.Pagination, error) {
	tx := s.db.Model(&models.PromptModel{}).Order("date DESC")
	var rows []models.PromptModel
	pag, err := pagination.Paginate(tx, q, &rows)
	if err != nil {
		return nil, pag, err
	}
	out := make([]PromptResponse, len(rows))
	for i, p := range rows {
		out[i] = PromptResponse{Date: p.Date, Text: p.Text}
	}
	return out, pag, nil
}

// Upsert sets the prompt for a day, replacing any existing text.
func (s *Service) Upsert(dto UpsertPromptDTO) (*PromptResponse, error) {
	if !dateRe.MatchString(dto.Date) {
		return nil, ErrDateFormat
	}
	row := models.PromptModel{Date: dto.Date, Text: dto.Text}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	s.log.Info("prompt set", zap.String("date", dto.Date))
	return &PromptResponse{Date: dto.Date, Text: dto.Text}, nil
}

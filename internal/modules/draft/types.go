package draft

import (
	"errors"
	"regexp"

	"github.com/run-write/core/internal/modules/gamification"
)

var ErrDateFormat = errors.New("date must be YYYY-MM-DD")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type SaveDraftDTO struct {
	Date      string `json:"date"      binding:"required"`
	Text      string `json:"text"      binding:"required"`
	Published *bool  `json:"published"`
}

// SaveResult is returned from a save so the client can update the word
// counter, streak flame, and badge toasts without a second round trip.
type SaveResult struct {
	WordCount int                  `json:"word_count"`
	Streak    int                  `json:"streak"`
	NewBadges []gamification.Badge `json:"new_badges"`
	Published bool                 `json:"published"`
}

type draftResponse struct {
	Date      string `json:"date"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Published bool   `json:"published"`
}

type historyEntry struct {
	Date      string `json:"date"`
	WordCount int    `json:"word_count"`
	Published bool   `json:"published"`
}

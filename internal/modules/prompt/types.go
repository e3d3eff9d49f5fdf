package prompt

import "errors"

var (
	ErrDateFormat    = errors.New("date must be YYYY-MM-DD")
	ErrPromptMissing = errors.New("no prompt for that day")
)

type UpsertPromptDTO struct {
	Date string `json:"date" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type PromptResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

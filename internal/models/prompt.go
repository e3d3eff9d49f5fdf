package models

// PromptModel is the writing prompt for one calendar day. Prompt text is
// produced elsewhere and seeded through the admin API.
type PromptModel struct {
	Base
	Date string `json:"date" gorm:"uniqueIndex;type:char(10);not null"`
	Text string `json:"text" gorm:"type:text;not null"`
}

func (PromptModel) TableName() string { return "prompts" }

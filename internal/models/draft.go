package models

// DraftEntry is a user's writing for a single calendar day.
// Date is a YYYY-MM-DD string; one entry per user per day.
type DraftEntry struct {
	Base
	UserID    string `json:"user_id"    gorm:"uniqueIndex:idx_draft_user_date;not null"`
	Date      string `json:"date"       gorm:"uniqueIndex:idx_draft_user_date;type:char(10);not null"`
	Text      string `json:"text"       gorm:"type:longtext"`
	WordCount int    `json:"word_count" gorm:"default:0"`
	Published bool   `json:"published"  gorm:"default:false"`
}

func (DraftEntry) TableName() string { return "draft_entries" }

package models

// ActivityDay marks a day on which a user reached the completion word
// threshold. Rows are only ever added, never removed.
type ActivityDay struct {
	Base
	UserID string `json:"user_id" gorm:"uniqueIndex:idx_activity_user_date;not null"`
	Date   string `json:"date"    gorm:"uniqueIndex:idx_activity_user_date;type:char(10);not null"`
}

func (ActivityDay) TableName() string { return "activity_days" }

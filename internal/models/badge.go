package models

// BadgeModel is an unlocked badge. The set is append-only: a badge is never
// taken away once granted, and the unique index makes grants idempotent.
type BadgeModel struct {
	Base
	UserID string `json:"user_id" gorm:"uniqueIndex:idx_badge_user_name;index;not null"`
	Name   string `json:"name"    gorm:"uniqueIndex:idx_badge_user_name;type:varchar(64);not null"`
}

func (BadgeModel) TableName() string { return "badges" }

package models

import "time"

// PinType orders the community feed: announcements first, then favorites,
// then everything else.
type PinType string

const (
	PinNone         PinType = "none"
	PinFavorite     PinType = "favorite"
	PinAnnouncement PinType = "announcement"
)

// ValidPinType reports whether p is a known pin tier.
func ValidPinType(p PinType) bool {
	switch p {
	case PinNone, PinFavorite, PinAnnouncement:
		return true
	}
	return false
}

// PostModel is a published day entry visible in the community feed.
// One post per user per day; the slug is stable across republish.
type PostModel struct {
	Base
	UserID      string    `json:"user_id"      gorm:"uniqueIndex:idx_post_user_date;index;not null"`
	User        *UserModel `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Date        string    `json:"date"         gorm:"uniqueIndex:idx_post_user_date;type:char(10);not null"`
	Slug        string    `json:"slug"         gorm:"uniqueIndex;not null"`
	Text        string    `json:"text"         gorm:"type:longtext"`
	WordCount   int       `json:"word_count"   gorm:"default:0"`
	PinType     PinType   `json:"pin_type"     gorm:"type:varchar(16);default:'none'"`
	PublishedAt time.Time `json:"published_at"`
}

func (PostModel) TableName() string { return "posts" }

package models

import (
	"errors"
	"time"
)

// ErrBanned is returned at mutation boundaries for banned users. Reads
// still work; writes do not.
var ErrBanned = errors.New("account is banned")

// UserModel represents a writer account created on first sign-in.
type UserModel struct {
	Base
	Provider      string     `json:"provider"        gorm:"uniqueIndex:idx_provider_uid;not null"`
	ProviderUID   string     `json:"-"               gorm:"uniqueIndex:idx_provider_uid;not null"`
	Email         string     `json:"email"           gorm:"index"`
	Name          string     `json:"name"`
	Image         string     `json:"image"`
	IsAdmin       bool       `json:"is_admin"        gorm:"default:false"`
	IsBanned      bool       `json:"-"               gorm:"default:false;index"`
	BannedAt      *time.Time `json:"-"`
	Streak        int        `json:"streak"          gorm:"default:0"`
	TotalWords    int64      `json:"total_words"     gorm:"default:0"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"-"`
}

func (UserModel) TableName() string { return "users" }

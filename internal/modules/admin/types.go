package admin

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRuleBadge    = errors.New("that badge unlocks through activity, it cannot be granted")
	ErrUnknownBadge = errors.New("unknown badge")
)

type SetPinDTO struct {
	PinType string `json:"pin_type" binding:"required"`
}

type GrantBadgeDTO struct {
	UserID string `json:"user_id" binding:"required"`
	Badge  string `json:"badge"   binding:"required"`
}

type BanResult struct {
	UserID       string `json:"user_id"`
	PostsRemoved int    `json:"posts_removed"`
}

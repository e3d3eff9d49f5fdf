package user

import (
	"errors"
	"time"

	"github.com/run-write/core/internal/modules/gamification"
)

var ErrUserNotFound = errors.New("user not found")

type UpdateProfileDTO struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// StatsResponse is the caller's own dashboard numbers.
type StatsResponse struct {
	Streak       int                  `json:"streak"`
	TotalWords   int64                `json:"total_words"`
	Completions  int64                `json:"completions"`
	MaxPostLikes int64                `json:"max_post_likes"`
	Badges       []gamification.Badge `json:"badges"`
}

// Profile is the public view of a writer: safe fields only.
type Profile struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Image      string               `json:"image"`
	Joined     time.Time            `json:"joined"`
	Streak     int                  `json:"streak"`
	TotalWords int64                `json:"total_words"`
	Badges     []gamification.Badge `json:"badges"`
	Posts      []ProfilePost        `json:"posts"`
}

type ProfilePost struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Date        string    `json:"date"`
	Text        string    `json:"text"`
	WordCount   int       `json:"word_count"`
	PublishedAt time.Time `json:"published_at"`
}

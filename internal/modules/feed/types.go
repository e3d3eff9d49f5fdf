package feed

import (
	"time"

	"github.com/run-write/core/internal/models"
)

// DefaultLimit matches the community page size.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

type feedAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type FeedItem struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Date        string         `json:"date"`
	Text        string         `json:"text"`
	WordCount   int            `json:"word_count"`
	PinType     models.PinType `json:"pin_type"`
	PublishedAt time.Time      `json:"published_at"`
	User        feedAuthor     `json:"user"`
	LikeCount   int64          `json:"like_count"`
	LikedByMe   bool           `json:"liked_by_me"`
}

func toFeedItem(p *models.PostModel, likeCount int64, likedByMe bool) FeedItem {
	item := FeedItem{
		ID:          p.ID,
		Slug:        p.Slug,
		Date:        p.Date,
		Text:        p.Text,
		WordCount:   p.WordCount,
		PinType:     p.PinType,
		PublishedAt: p.PublishedAt,
		LikeCount:   likeCount,
		LikedByMe:   likedByMe,
	}
	if p.User != nil {
		item.User = feedAuthor{ID: p.User.ID, Name: p.User.Name, Image: p.User.Image}
	} else {
		item.User = feedAuthor{ID: p.UserID}
	}
	return item
}

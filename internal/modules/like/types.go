package like

import "errors"

var ErrPostNotFound = errors.New("post not found")

type ToggleDTO struct {
	PostID string `json:"post_id" binding:"required"`
}

// ToggleResult tells the client the new state so it can flip the heart
// without refetching the feed.
type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

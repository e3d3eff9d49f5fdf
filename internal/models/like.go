package models

// LikeModel records one user liking one post. The unique index makes the
// like set toggle-safe; counts always come from COUNT queries.
type LikeModel struct {
	Base
	UserID string `json:"user_id" gorm:"uniqueIndex:idx_like_user_post;not null"`
	PostID string `json:"post_id" gorm:"uniqueIndex:idx_like_user_post;index;not null"`
}

func (LikeModel) TableName() string { return "likes" }

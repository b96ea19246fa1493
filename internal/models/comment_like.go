package models

import "time"

// CommentLike is a person's like on a comment
type CommentLike struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CommentID uint      `json:"-" gorm:"index;uniqueIndex:idx_comment_author_like"`
	AuthorID  uint      `json:"-" gorm:"index;uniqueIndex:idx_comment_author_like"` // Person ID
	CreatedAt time.Time `json:"created_at"`
}

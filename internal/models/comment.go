package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	GUID      string    `json:"guid" gorm:"uniqueIndex;size:64"`
	PostGUID  string    `json:"-" gorm:"index;size:64"`
	AuthorID  uint      `json:"-" gorm:"index"`
	Author    *Person   `json:"-" gorm:"foreignKey:AuthorID"`
	Text      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.GUID == "" {
		c.GUID = uuid.NewString()
	}
	return nil
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=65535"`
}

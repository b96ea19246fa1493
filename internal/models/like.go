package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	GUID      string    `json:"guid" gorm:"uniqueIndex;size:64"`
	PostGUID  string    `json:"-" gorm:"index;uniqueIndex:idx_post_author_like;size:64"`
	AuthorID  uint      `json:"-" gorm:"index;uniqueIndex:idx_post_author_like"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.GUID == "" {
		l.GUID = uuid.NewString()
	}
	return nil
}

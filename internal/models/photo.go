package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rendition names of a stored photo.
const (
	SizeThumbSmall  = "thumb_small"
	SizeThumbMedium = "thumb_medium"
	SizeThumbLarge  = "thumb_large"
	SizeScaledFull  = "scaled_full"
)

// Photo is an uploaded image owned by a person.
type Photo struct {
	ID                uint    `gorm:"primaryKey"`
	GUID              string  `gorm:"uniqueIndex;size:64"`
	AuthorID          uint    `gorm:"index"`
	Author            *Person `gorm:"foreignKey:AuthorID"`
	Pending           bool    `gorm:"default:false"`
	Public            bool    `gorm:"default:false;index"`
	StatusMessageGUID *string `gorm:"index;size:64"`
	Width             int
	Height            int
	ContentType       string `gorm:"size:64"`
	StorageKeys       string // space separated object keys, removed with the photo
	URLThumbSmall     string
	URLThumbMedium    string
	URLThumbLarge     string
	URLScaledFull     string
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.GUID == "" {
		p.GUID = uuid.NewString()
	}
	return nil
}

// URL returns the URL of the named rendition.
func (p *Photo) URL(size string) string {
	switch size {
	case SizeThumbSmall:
		return p.URLThumbSmall
	case SizeThumbMedium:
		return p.URLThumbMedium
	case SizeThumbLarge:
		return p.URLThumbLarge
	default:
		return p.URLScaledFull
	}
}

// PhotoAspect records an aspect a non-public photo is shared with.
type PhotoAspect struct {
	ID       uint `gorm:"primaryKey"`
	PhotoID  uint `gorm:"index;uniqueIndex:idx_photo_aspect"`
	AspectID uint `gorm:"index;uniqueIndex:idx_photo_aspect"`
}

// CreatePhotoRequest holds the non-file fields of a photo upload.
type CreatePhotoRequest struct {
	Pending         bool   `form:"pending"`
	SetProfilePhoto bool   `form:"set_profile_photo"`
	AspectIDs       string `form:"aspect_ids"` // "public", "all" or comma separated ids
}

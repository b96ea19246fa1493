package models

import "time"

// Aspect is a named group of contacts used to scope who can see content.
type Aspect struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"index;uniqueIndex:idx_aspect_user_name"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex:idx_aspect_user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// AspectMembership places a contact (person) in one of a user's aspects.
type AspectMembership struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AspectID  uint      `json:"aspect_id" gorm:"index;uniqueIndex:idx_aspect_person"`
	PersonID  uint      `json:"person_id" gorm:"index;uniqueIndex:idx_aspect_person"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateAspectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type ShareWithRequest struct {
	PersonGUID string `json:"person_guid" validate:"required"`
}

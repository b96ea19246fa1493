package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person is a federated identity: local users own one, remote contacts are
// known only by their handle.
type Person struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	GUID           string    `json:"guid" gorm:"uniqueIndex;size:64"`
	DiasporaHandle string    `json:"diaspora_id" gorm:"uniqueIndex;size:255"`
	OwnerID        *uint     `json:"-" gorm:"index"` // nil for remote people
	Profile        Profile   `json:"profile" gorm:"foreignKey:PersonID"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.GUID == "" {
		p.GUID = uuid.NewString()
	}
	return nil
}

// Name is the display name, falling back to the handle.
func (p *Person) Name() string {
	name := strings.TrimSpace(p.Profile.FirstName + " " + p.Profile.LastName)
	if name == "" {
		return p.DiasporaHandle
	}
	return name
}

// Local reports whether the person belongs to an account on this pod.
func (p *Person) Local() bool {
	return p.OwnerID != nil
}

// Profile holds the public profile data of a person.
type Profile struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	PersonID       uint   `json:"-" gorm:"uniqueIndex"`
	FirstName      string `json:"first_name" gorm:"size:32"`
	LastName       string `json:"last_name" gorm:"size:32"`
	ImageURL       string `json:"image_url"`
	ImageURLSmall  string `json:"image_url_small"`
	ImageURLMedium string `json:"image_url_medium"`
	UpdatedAt      time.Time
}

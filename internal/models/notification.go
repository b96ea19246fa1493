package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType identifies the event a notification reports. Values are
// persisted, so new types are appended and existing ones never renumbered.
type NotificationType int16

const (
	NotificationAlsoCommented NotificationType = iota + 1
	NotificationCommentOnPost
	NotificationLiked
	NotificationLikedComment
	NotificationMentionedInPost
	NotificationMentionedInComment
	NotificationReshared
	NotificationStartedSharing
	NotificationContactsBirthday
)

// NotificationTypes lists every declared type.
var NotificationTypes = []NotificationType{
	NotificationAlsoCommented,
	NotificationCommentOnPost,
	NotificationLiked,
	NotificationLikedComment,
	NotificationMentionedInPost,
	NotificationMentionedInComment,
	NotificationReshared,
	NotificationStartedSharing,
	NotificationContactsBirthday,
}

// APIName returns the public name used in API payloads. ok is false for a
// value that has no public name.
func (t NotificationType) APIName() (name string, ok bool) {
	switch t {
	case NotificationAlsoCommented:
		return "also_commented", true
	case NotificationCommentOnPost:
		return "comment_on_post", true
	case NotificationLiked:
		return "liked", true
	case NotificationLikedComment:
		return "liked_comment", true
	case NotificationMentionedInPost:
		return "mentioned", true
	case NotificationMentionedInComment:
		return "mentioned_in_comment", true
	case NotificationReshared:
		return "reshared", true
	case NotificationStartedSharing:
		return "started_sharing", true
	case NotificationContactsBirthday:
		return "contacts_birthday", true
	}
	return "", false
}

func (t NotificationType) String() string {
	if name, ok := t.APIName(); ok {
		return name
	}
	return fmt.Sprintf("NotificationType(%d)", int16(t))
}

// ParseNotificationType maps a public name back to its type.
func ParseNotificationType(name string) (NotificationType, bool) {
	for _, t := range NotificationTypes {
		if n, _ := t.APIName(); n == name {
			return t, true
		}
	}
	return 0, false
}

// ValidateNotificationTypes fails when a declared type has no public name or
// two types share one. It runs once at startup.
func ValidateNotificationTypes() error {
	seen := make(map[string]NotificationType, len(NotificationTypes))
	for _, t := range NotificationTypes {
		name, ok := t.APIName()
		if !ok {
			return fmt.Errorf("notification type %d has no API name", int16(t))
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("notification types %d and %d share API name %q", int16(other), int16(t), name)
		}
		seen[name] = t
	}
	return nil
}

// Notification represents an event relevant to a user (PostgreSQL)
type Notification struct {
	ID          uint             `gorm:"primaryKey"`
	GUID        string           `gorm:"uniqueIndex;size:64"`
	RecipientID uint             `gorm:"index"` // User ID
	Type        NotificationType `gorm:"type:smallint;index"`
	Unread      bool             `gorm:"default:true;index"`
	TargetGUID  string           `gorm:"size:64;index"` // post guid, empty when the event has no target
	CreatedAt   time.Time        `gorm:"index"`
	UpdatedAt   time.Time

	// Populated by the service layer before presenting.
	Actors []Person            `gorm:"-"`
	Target *NotificationTarget `gorm:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.GUID == "" {
		n.GUID = uuid.NewString()
	}
	return nil
}

// NotificationActor links a person who triggered a notification to it.
// Insertion order is the order actors are presented in.
type NotificationActor struct {
	ID             uint `gorm:"primaryKey"`
	NotificationID uint `gorm:"index;uniqueIndex:idx_notification_actor"`
	PersonID       uint `gorm:"index;uniqueIndex:idx_notification_actor"`
	CreatedAt      time.Time
}

// NotificationTarget is the object a notification is about.
type NotificationTarget struct {
	GUID   string
	Author Person
}

// UpdateNotificationRequest defines the request body for marking a notification
type UpdateNotificationRequest struct {
	Read *bool `json:"read" validate:"required"`
}

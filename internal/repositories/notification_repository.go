package repositories

import (
	"context"
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	OnlyUnread bool
	Types      []models.NotificationType
	After      *time.Time
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	FindUnread(ctx context.Context, recipientID uint, typ models.NotificationType, targetGUID string) (*models.Notification, error)
	CreateNotification(ctx context.Context, notification *models.Notification, actorID uint) error
	AddActor(ctx context.Context, notification *models.Notification, actorID uint) error
	List(ctx context.Context, recipientID uint, filter NotificationFilter, offset, limit int) ([]models.Notification, int64, error)
	GetByGUID(ctx context.Context, recipientID uint, guid string) (*models.Notification, error)
	ActorIDs(ctx context.Context, notificationIDs []uint) (map[uint][]uint, error)
	SetUnread(ctx context.Context, notificationID uint, unread bool) error
	MarkAllAsRead(ctx context.Context, recipientID uint) error
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) FindUnread(ctx context.Context, recipientID uint, typ models.NotificationType, targetGUID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND type = ? AND target_guid = ? AND unread = true", recipientID, typ, targetGUID).
		Order("id DESC").
		First(&n).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification, actorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		return tx.Create(&models.NotificationActor{NotificationID: notification.ID, PersonID: actorID}).Error
	})
}

// AddActor appends an actor (once) and bumps the notification's update time.
func (r *postgresNotificationRepository) AddActor(ctx context.Context, notification *models.Notification, actorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.NotificationActor{NotificationID: notification.ID, PersonID: actorID}).Error
		if err != nil {
			return err
		}
		return tx.Model(notification).Update("updated_at", time.Now()).Error
	})
}

func (r *postgresNotificationRepository) List(ctx context.Context, recipientID uint, filter NotificationFilter, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if filter.OnlyUnread {
		query = query.Where("unread = true")
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.After != nil {
		query = query.Where("created_at > ?", *filter.After)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("updated_at DESC, id DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

func (r *postgresNotificationRepository) GetByGUID(ctx context.Context, recipientID uint, guid string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Where("recipient_id = ? AND guid = ?", recipientID, guid).First(&n).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// ActorIDs returns the actor person IDs per notification in insertion order.
func (r *postgresNotificationRepository) ActorIDs(ctx context.Context, notificationIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(notificationIDs))
	if len(notificationIDs) == 0 {
		return out, nil
	}
	var rows []models.NotificationActor
	err := r.db.WithContext(ctx).
		Where("notification_id IN ?", notificationIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.NotificationID] = append(out[row.NotificationID], row.PersonID)
	}
	return out, nil
}

func (r *postgresNotificationRepository) SetUnread(ctx context.Context, notificationID uint, unread bool) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", notificationID).Update("unread", unread).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND unread = true", recipientID).
		Update("unread", false).Error
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND unread = true", recipientID).
		Count(&count).Error
	return count, err
}

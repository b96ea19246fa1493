package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"go.uber.org/zap"
)

// NotificationService records and serves notifications. Repeated events on
// the same target aggregate into one unread notification with many actors.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	people        repositories.PersonRepository
	posts         repositories.PostRepository
	log           *zap.Logger
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	people repositories.PersonRepository,
	posts repositories.PostRepository,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		people:        people,
		posts:         posts,
		log:           log,
	}
}

// Notify records that actorPersonID caused an event of typ on targetGUID for
// the recipient user.
func (s *NotificationService) Notify(ctx context.Context, recipientUserID uint, typ models.NotificationType, targetGUID string, actorPersonID uint) error {
	if _, ok := typ.APIName(); !ok {
		return fmt.Errorf("notify: unknown %s", typ)
	}
	recipient, err := s.users.GetUserByID(ctx, recipientUserID)
	if err != nil {
		return fmt.Errorf("notify: load recipient: %w", err)
	}
	if recipient.PersonID == actorPersonID {
		return nil
	}

	existing, err := s.notifications.FindUnread(ctx, recipientUserID, typ, targetGUID)
	switch {
	case err == nil:
		return s.notifications.AddActor(ctx, existing, actorPersonID)
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	n := &models.Notification{
		RecipientID: recipientUserID,
		Type:        typ,
		Unread:      true,
		TargetGUID:  targetGUID,
	}
	if err := s.notifications.CreateNotification(ctx, n, actorPersonID); err != nil {
		return err
	}
	s.log.Debug("notification created",
		zap.String("guid", n.GUID),
		zap.Stringer("type", typ),
		zap.Uint("recipient_id", recipientUserID),
	)
	return nil
}

// NotifyPerson notifies the local owner of recipientPersonID. Remote people
// have no account and are skipped.
func (s *NotificationService) NotifyPerson(ctx context.Context, recipientPersonID uint, typ models.NotificationType, targetGUID string, actorPersonID uint) error {
	if recipientPersonID == actorPersonID {
		return nil
	}
	user, err := s.users.GetUserByPersonID(ctx, recipientPersonID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.Notify(ctx, user.ID, typ, targetGUID, actorPersonID)
}

// NotifyQuietly runs NotifyPerson and logs a failure instead of returning it.
// The triggering action has already succeeded at this point.
func (s *NotificationService) NotifyQuietly(ctx context.Context, recipientPersonID uint, typ models.NotificationType, targetGUID string, actorPersonID uint) {
	if err := s.NotifyPerson(ctx, recipientPersonID, typ, targetGUID, actorPersonID); err != nil {
		s.log.Error("failed to record notification",
			zap.Stringer("type", typ),
			zap.String("target", targetGUID),
			zap.Error(err),
		)
	}
}

// List returns a page of the user's notifications with actors and targets loaded.
func (s *NotificationService) List(ctx context.Context, user *models.User, filter repositories.NotificationFilter, page, perPage int) ([]models.Notification, int64, error) {
	notifications, total, err := s.notifications.List(ctx, user.ID, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, err
	}
	if err := s.hydrate(ctx, notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (s *NotificationService) Get(ctx context.Context, user *models.User, guid string) (*models.Notification, error) {
	n, err := s.find(ctx, user, guid)
	if err != nil {
		return nil, err
	}
	list := []models.Notification{*n}
	if err := s.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// SetRead marks one of the user's notifications read or unread.
func (s *NotificationService) SetRead(ctx context.Context, user *models.User, guid string, read bool) error {
	n, err := s.find(ctx, user, guid)
	if err != nil {
		return err
	}
	return s.notifications.SetUnread(ctx, n.ID, !read)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) error {
	return s.notifications.MarkAllAsRead(ctx, user.ID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	return s.notifications.GetUnreadCount(ctx, user.ID)
}

func (s *NotificationService) find(ctx context.Context, user *models.User, guid string) (*models.Notification, error) {
	n, err := s.notifications.GetByGUID(ctx, user.ID, guid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

// hydrate loads actors and target posts with their authors in three queries.
func (s *NotificationService) hydrate(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ids := make([]uint, len(notifications))
	var targets []string
	for i, n := range notifications {
		ids[i] = n.ID
		if n.TargetGUID != "" {
			targets = append(targets, n.TargetGUID)
		}
	}

	actorIDs, err := s.notifications.ActorIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load actors: %w", err)
	}
	posts, err := s.posts.GetPostsByGUIDs(ctx, targets)
	if err != nil {
		return fmt.Errorf("load targets: %w", err)
	}

	var personIDs []uint
	for _, actors := range actorIDs {
		personIDs = append(personIDs, actors...)
	}
	for _, p := range posts {
		personIDs = append(personIDs, p.AuthorID)
	}
	people, err := s.people.GetByIDs(ctx, personIDs)
	if err != nil {
		return fmt.Errorf("load people: %w", err)
	}

	for i := range notifications {
		n := &notifications[i]
		n.Actors = make([]models.Person, 0, len(actorIDs[n.ID]))
		for _, id := range actorIDs[n.ID] {
			if p, ok := people[id]; ok {
				n.Actors = append(n.Actors, p)
			}
		}
		if post, ok := posts[n.TargetGUID]; ok {
			if author, ok := people[post.AuthorID]; ok {
				n.Target = &models.NotificationTarget{GUID: post.GUID, Author: author}
			}
		}
	}
	return nil
}

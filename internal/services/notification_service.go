package services

import (
	"context"

	"github.com/Temirlan230/friendgallery/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	repo NotificationRepo
}

func NewNotificationService(repo NotificationRepo) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification records a new unread notification for a user.
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns the user's unexpired notifications, newest
// first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead marks one of the user's notifications as read.
// Someone else's notification is indistinguishable from a missing one.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	ok, err := s.repo.MarkAsRead(ctx, notifID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteNotification removes one of the user's notifications.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error {
	ok, err := s.repo.DeleteNotification(ctx, notifID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// CleanupExpiredNotifications purges notifications past their expiry. The
// cron scheduler runs it hourly.
func (s *NotificationService) CleanupExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}

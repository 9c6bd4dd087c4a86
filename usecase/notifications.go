package usecase

import (
	"context"
	"errors"

	"main/model"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *model.Notification) (string, error)
	GetNotification(ctx context.Context, notificationID string) (*model.Notification, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, notificationID, receiverID string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	AppendFCMToken(ctx context.Context, userID, token string) error
	RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error
}

type NotificationsService struct {
	NotificationRepo NotificationStore
	UserRepo         ProfileStore
}

// GetInbox lists the user's notifications, newest first.
func (svc *NotificationsService) GetInbox(ctx context.Context, userID string) ([]*model.Notification, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return svc.NotificationRepo.ListByReceiver(ctx, userID)
}

// GetNotification fetches one inbox entry. A notification addressed to a
// different receiver reads as not found rather than as forbidden, so the id
// space leaks nothing about other inboxes.
func (svc *NotificationsService) GetNotification(ctx context.Context, notificationID, userID string) (*model.Notification, error) {
	if notificationID == "" || userID == "" {
		return nil, errors.New("notification ID and user ID are required")
	}

	notification, err := svc.NotificationRepo.GetNotification(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil || notification.ReceiverID != userID {
		return nil, nil
	}
	return notification, nil
}

func (svc *NotificationsService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if notificationID == "" {
		return errors.New("notification ID is required")
	}
	return svc.NotificationRepo.MarkRead(ctx, notificationID, userID)
}

// RegisterToken appends a device push token to the user's profile. The
// append is intentionally not deduplicated; the dispatcher prunes tokens
// the push service rejects.
func (svc *NotificationsService) RegisterToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	return svc.UserRepo.AppendFCMToken(ctx, userID, token)
}

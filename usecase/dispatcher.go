package usecase

import (
	"context"
	"log"

	"main/model"
	"main/services"
	"main/utils"
)

// NotificationSource delivers every newly created notification document.
type NotificationSource interface {
	WatchInserts(ctx context.Context, handle func(*model.Notification)) error
}

// PushDispatcher is the server-side fan-out worker: it triggers on
// notification creation, looks up the receiver's registered device tokens,
// multicasts the push, and prunes tokens the service reports as permanently
// invalid.
type PushDispatcher struct {
	UserRepo ProfileStore
	Pusher   services.Pusher
}

// Run blocks consuming the source until ctx is cancelled or the stream
// fails. Stream failures are logged, not retried here.
func (d *PushDispatcher) Run(ctx context.Context, source NotificationSource) {
	err := source.WatchInserts(ctx, func(notification *model.Notification) {
		d.Dispatch(ctx, notification)
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("Push dispatcher stopped: %v", err)
		utils.TrackError("push", "dispatcher_stopped")
	}
}

// Dispatch sends one notification to all of the receiver's devices.
func (d *PushDispatcher) Dispatch(ctx context.Context, notification *model.Notification) {
	profile, err := d.UserRepo.GetProfile(ctx, notification.ReceiverID)
	if err != nil {
		log.Printf("Failed to load receiver profile %s: %v", notification.ReceiverID, err)
		utils.TrackError("push", "profile_lookup_failed")
		return
	}
	if profile == nil || len(profile.FCMTokens) == 0 {
		return
	}

	result, err := d.Pusher.Send(ctx, profile.FCMTokens, services.PushMessage{
		Title: notification.Title,
		Body:  notification.Body,
		Data: map[string]string{
			"type":    string(notification.Type),
			"memo_id": notification.MemoID,
			"sender":  notification.SenderName,
		},
	})
	if err != nil {
		log.Printf("Push delivery failed for %s: %v", notification.ReceiverID, err)
		utils.TrackError("push", "delivery_failed")
		return
	}

	if len(result.InvalidTokens) > 0 {
		if err := d.UserRepo.RemoveFCMTokens(ctx, notification.ReceiverID, result.InvalidTokens); err != nil {
			log.Printf("Failed to prune invalid tokens for %s: %v", notification.ReceiverID, err)
			utils.TrackError("push", "token_prune_failed")
		}
	}
}

package repository

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationsRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotificationsRepo(db *mongo.Database) *NotificationsRepo {
	return &NotificationsRepo{
		MongoCollection: db.Collection(NotificationsCollection),
	}
}

func (r *NotificationsRepo) CreateNotification(ctx context.Context, notification *model.Notification) (string, error) {
	timer := utils.TrackDBOperation("insert", NotificationsCollection)
	defer timer.ObserveDuration()

	if notification.ReceiverID == "" {
		return "", errors.New("receiver ID is required")
	}
	if notification.ID == "" {
		notification.ID = utils.GenerateID()
	}
	notification.CreatedAt = time.Now()

	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, notification); err != nil {
		utils.TrackError("database", "notification_creation_failed")
		return "", storeErr("create notification", err)
	}
	return notification.ID, nil
}

// ListByReceiver returns the receiver's inbox, newest first. Notifications
// are immutable apart from is_read, so created_at is the sort key here.
func (r *NotificationsRepo) ListByReceiver(ctx context.Context, receiverID string) ([]*model.Notification, error) {
	timer := utils.TrackDBOperation("find", NotificationsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"receiver_id": receiverID})
	if err != nil {
		utils.TrackError("database", "notification_list_failed")
		return nil, storeErr("list notifications", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*model.Notification, 0)
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, storeErr("decode notifications", err)
	}

	sortByUpdatedAtDesc(notifications, func(n *model.Notification) time.Time { return n.CreatedAt })
	return notifications, nil
}

// MarkRead flips is_read on a single inbox entry.
func (r *NotificationsRepo) MarkRead(ctx context.Context, notificationID, receiverID string) error {
	timer := utils.TrackDBOperation("update", NotificationsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": notificationID, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return storeErr("mark notification read", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetNotification fetches one document by id; receiver scoping is the
// caller's job. Missing documents return (nil, nil).
func (r *NotificationsRepo) GetNotification(ctx context.Context, notificationID string) (*model.Notification, error) {
	timer := utils.TrackDBOperation("find", NotificationsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var notification model.Notification
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": notificationID}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, storeErr("get notification", err)
	}
	return &notification, nil
}

// Subscribe scopes the inbox stream by receiver id rather than owner id.
func (r *NotificationsRepo) Subscribe(ctx context.Context, receiverID string, callback func([]*model.Notification)) (func(), error) {
	return subscribeOwner(ctx, r.MongoCollection, receiverID, func(ctx context.Context) error {
		notifications, err := r.ListByReceiver(ctx, receiverID)
		if err != nil {
			return err
		}
		callback(notifications)
		return nil
	})
}

// WatchInserts invokes handle with every newly created notification across
// all receivers. The push dispatcher uses this as its fan-out trigger.
func (r *NotificationsRepo) WatchInserts(ctx context.Context, handle func(*model.Notification)) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}

	stream, err := r.MongoCollection.Watch(ctx, pipeline)
	if err != nil {
		utils.TrackError("subscription", "notification_watch_failed")
		return storeErr("watch notifications", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			FullDocument model.Notification `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			utils.TrackError("subscription", "notification_decode_failed")
			continue
		}
		handle(&event.FullDocument)
	}
	return stream.Err()
}

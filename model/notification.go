package model

import "time"

type NotificationType string

const (
	NotificationMemoShared NotificationType = "memo_shared"
	NotificationSystem     NotificationType = "system"
)

type Notification struct {
	ID         string           `bson:"_id,omitempty" json:"id"`
	Type       NotificationType `bson:"type" json:"type"`
	Title      string           `bson:"title" json:"title"`
	Body       string           `bson:"body" json:"body"`
	SenderID   string           `bson:"sender_id" json:"sender_id"`
	SenderName string           `bson:"sender_name" json:"sender_name"`
	ReceiverID string           `bson:"receiver_id" json:"receiver_id"`
	MemoID     string           `bson:"memo_id,omitempty" json:"memo_id,omitempty"`
	IsRead     bool             `bson:"is_read" json:"is_read"`
	CreatedAt  time.Time        `bson:"created_at" json:"created_at"`
}

package model

import "time"

// UserProfile mirrors the identity returned by the Google sign-in flow plus
// the registered push tokens for this user's devices.
type UserProfile struct {
	UserID      string    `bson:"_id,omitempty" json:"user_id"`
	GoogleID    string    `bson:"google_id" json:"google_id"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	PhotoURL    string    `bson:"photo_url" json:"photo_url"`
	FCMTokens   []string  `bson:"fcm_tokens,omitempty" json:"fcm_tokens,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

package model

import "time"

type Template struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	Title      string    `bson:"title" json:"title" binding:"required"`
	Content    string    `bson:"content" json:"content" binding:"required"`
	Category   string    `bson:"category" json:"category"`
	UsageCount int       `bson:"usage_count" json:"usage_count"`
	IsPublic   bool      `bson:"is_public" json:"is_public"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

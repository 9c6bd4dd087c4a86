package model

import (
	"time"
	"unicode/utf8"
)

type MemoCategory string

const (
	CategoryTemporary MemoCategory = "temporary"
	CategoryMemory    MemoCategory = "memory"
	CategoryArchive   MemoCategory = "archive"
)

// TitleLength is the number of runes of content used as the stored title.
const TitleLength = 10

type Memo struct {
	ID         string       `bson:"_id,omitempty" json:"id"`
	UserID     string       `bson:"user_id" json:"user_id"`
	Title      string       `bson:"title" json:"title"`
	Content    string       `bson:"content" json:"content" binding:"required"`
	Images     []string     `bson:"images,omitempty" json:"images,omitempty"`
	Tags       []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	Category   MemoCategory `bson:"category" json:"category"`
	SharedWith []SharedUser `bson:"shared_with,omitempty" json:"shared_with,omitempty"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updated_at"`
}

type SharedPermissions struct {
	Edit   bool `bson:"edit" json:"edit"`
	Delete bool `bson:"delete" json:"delete"`
}

type SharedUser struct {
	UID         string            `bson:"uid" json:"uid"`
	Email       string            `bson:"email" json:"email"`
	DisplayName string            `bson:"display_name" json:"display_name"`
	PhotoURL    string            `bson:"photo_url" json:"photo_url"`
	Permissions SharedPermissions `bson:"permissions" json:"permissions"`
}

// ValidCategory reports whether c is one of the three memo categories.
func ValidCategory(c MemoCategory) bool {
	switch c {
	case CategoryTemporary, CategoryMemory, CategoryArchive:
		return true
	}
	return false
}

// DeriveTitle returns the stored title for a memo: the first TitleLength runes
// of the content, with no ellipsis marker appended.
func DeriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= TitleLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:TitleLength])
}

type MemoStats struct {
	Total     int `json:"total"`
	Temporary int `json:"temporary"`
	Memory    int `json:"memory"`
	Archived  int `json:"archived"`
	WithImage int `json:"with_image"`
	Shared    int `json:"shared"`
}

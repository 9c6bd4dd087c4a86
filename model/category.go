package model

import "time"

const (
	// CategorySlots is the fixed number of template category slots per user.
	CategorySlots = 5

	// ReservedCategoryName is force-deactivated regardless of stored state.
	ReservedCategoryName = "지정안함"

	// CategoryNameMaxRunes caps the display name length.
	CategoryNameMaxRunes = 4
)

// Category is a template category slot. Every user owns exactly CategorySlots
// of them, ordered 0..CategorySlots-1, auto-created on first read.
type Category struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Name      string    `bson:"name" json:"name"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	Order     int       `bson:"order" json:"order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultCategories returns the five slots created for a first-time user.
func DefaultCategories(userID string) []*Category {
	names := [CategorySlots]string{ReservedCategoryName, "일상", "업무", "공부", "기타"}
	now := time.Now()

	categories := make([]*Category, 0, CategorySlots)
	for i, name := range names {
		categories = append(categories, &Category{
			UserID:    userID,
			Name:      name,
			IsActive:  i != 0,
			Order:     i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return categories
}

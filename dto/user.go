package dto

import (
	"main/model"
	"time"
)

type UserLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, POST, PUT, DELETE, PATCH
}

type UserProfileResponse struct {
	UserID      string              `json:"user_id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name"`
	PhotoURL    string              `json:"photo_url"`
	CreatedAt   time.Time           `json:"created_at"`
	Links       map[string]UserLink `json:"_links,omitempty"` // HAL UserLinks
}

func ToUserProfileResponse(user *model.UserProfile, links map[string]UserLink) UserProfileResponse {
	return UserProfileResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   user.CreatedAt,
		Links:       links, // Set links
	}
}

package dto

import "main/model"

type CreateMemoRequest struct {
	Content  string             `json:"content" binding:"required"`
	Category model.MemoCategory `json:"category"`
	Images   []string           `json:"images"`
	Tags     []string           `json:"tags"`
}

type UpdateMemoRequest struct {
	Content  string             `json:"content" binding:"required"`
	Category model.MemoCategory `json:"category"`
	Images   []string           `json:"images"`
	Tags     []string           `json:"tags"`
}

type ShareMemoRequest struct {
	Users []model.SharedUser `json:"users" binding:"required,min=1,dive"`
}

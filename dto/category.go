package dto

type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,categoryname"`

	// Omitting is_active renames the slot without touching its toggle.
	IsActive *bool `json:"is_active"`
}

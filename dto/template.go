package dto

type CreateTemplateRequest struct {
	Title    string `json:"title" binding:"required,max=100"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	IsPublic bool   `json:"is_public"`
}

type UpdateTemplateRequest struct {
	Title    string `json:"title" binding:"required,max=100"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	IsPublic bool   `json:"is_public"`
}

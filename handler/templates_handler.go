package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetTemplatesHandler(c *gin.Context, templatesService *usecase.TemplatesService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	templates, err := templatesService.GetUserTemplates(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch templates")
		return
	}

	utils.Success(c, gin.H{"templates": templates})
}

func CreateTemplateHandler(c *gin.Context, templatesService *usecase.TemplatesService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	template, err := templatesService.CreateTemplate(c, userID, req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, template)
}

func UpdateTemplateHandler(c *gin.Context, templatesService *usecase.TemplatesService) {
	userID := c.GetString("user_id")
	templateID := c.Param("id")

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := templatesService.UpdateTemplate(c, templateID, userID, req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Template updated successfully"})
}

func DeleteTemplateHandler(c *gin.Context, templatesService *usecase.TemplatesService) {
	userID := c.GetString("user_id")
	templateID := c.Param("id")

	if err := templatesService.DeleteTemplate(c, templateID, userID); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Template deleted successfully"})
}

// UseTemplateHandler records a quick-insert and hands the content back for
// the editor to splice in.
func UseTemplateHandler(c *gin.Context, templatesService *usecase.TemplatesService) {
	userID := c.GetString("user_id")
	templateID := c.Param("id")

	template, err := templatesService.UseTemplate(c, templateID, userID)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, template)
}

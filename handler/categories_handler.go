package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetCategoriesHandler returns the user's five ordered slots. The defaults
// are created on the first read for a new account.
func GetCategoriesHandler(c *gin.Context, categoriesService *usecase.CategoriesService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	categories, err := categoriesService.GetUserCategories(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch categories")
		return
	}

	utils.Success(c, gin.H{"categories": categories})
}

func UpdateCategoryHandler(c *gin.Context, categoriesService *usecase.CategoriesService) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestCode(c, "invalid-category-name")
		return
	}

	if err := categoriesService.UpdateCategory(c, categoryID, userID, req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Category updated successfully"})
}

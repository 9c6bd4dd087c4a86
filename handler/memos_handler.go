package handler

import (
	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetMemosHandler returns the default list view, everything except the
// archive, newest first. An optional ?category= narrows to one category.
func GetMemosHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if category := c.Query("category"); category != "" {
		memos, err := memosService.GetMemosByCategory(c, userID, model.MemoCategory(category))
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.Success(c, gin.H{"memos": memos})
		return
	}

	memos, err := memosService.GetUserMemos(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch memos")
		return
	}

	utils.Success(c, gin.H{"memos": memos})
}

func GetArchivedMemosHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	memos, err := memosService.GetArchivedMemos(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch archived memos")
		return
	}

	utils.Success(c, gin.H{"memos": memos})
}

func GetMemoHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	memoID := c.Param("id")

	memo, err := memosService.GetMemo(c, memoID, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch memo")
		return
	}
	if memo == nil {
		utils.NotFound(c, "Memo not found")
		return
	}

	utils.Success(c, memo)
}

func CreateMemoHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req dto.CreateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestCode(c, "empty-content")
		return
	}

	memo, err := memosService.CreateMemo(c, userID, req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, memo)
}

func UpdateMemoHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	memoID := c.Param("id")

	var req dto.UpdateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestCode(c, "empty-content")
		return
	}

	if err := memosService.UpdateMemo(c, memoID, userID, req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Memo updated successfully"})
}

func DeleteMemoHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	memoID := c.Param("id")

	if err := memosService.DeleteMemo(c, memoID, userID); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Memo deleted successfully"})
}

// ShareMemoHandler saves the shared-user list and notifies each recipient.
func ShareMemoHandler(c *gin.Context, memosService *usecase.MemosService, authService *usecase.AuthService) {
	userID := c.GetString("user_id")
	memoID := c.Param("id")

	var req dto.ShareMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	senderName := ""
	if profile, err := authService.GetProfile(c, userID); err == nil {
		senderName = profile.DisplayName
	}

	if err := memosService.ShareMemo(c, memoID, userID, senderName, req.Users); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Memo shared successfully"})
}

func GetMemoStatsHandler(c *gin.Context, memosService *usecase.MemosService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := memosService.GetMemoStats(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to compute stats")
		return
	}

	utils.Success(c, stats)
}

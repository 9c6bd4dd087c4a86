package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetNotificationsHandler(c *gin.Context, notificationsService *usecase.NotificationsService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	notifications, err := notificationsService.GetInbox(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch notifications")
		return
	}

	utils.Success(c, gin.H{"notifications": notifications})
}

func GetNotificationHandler(c *gin.Context, notificationsService *usecase.NotificationsService) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	notification, err := notificationsService.GetNotification(c, notificationID, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch notification")
		return
	}
	if notification == nil {
		utils.NotFound(c, "Notification not found")
		return
	}

	utils.Success(c, notification)
}

func MarkNotificationReadHandler(c *gin.Context, notificationsService *usecase.NotificationsService) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	if err := notificationsService.MarkRead(c, notificationID, userID); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Notification marked as read"})
}

// RegisterPushTokenHandler stores a device push token on the profile so the
// dispatcher can reach this device.
func RegisterPushTokenHandler(c *gin.Context, notificationsService *usecase.NotificationsService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req dto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := notificationsService.RegisterToken(c, userID, req.Token); err != nil {
		utils.InternalError(c, "Failed to register push token")
		return
	}

	utils.Success(c, gin.H{"message": "Push token registered"})
}

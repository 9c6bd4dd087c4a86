package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetActiveSessionsHandler lists the user's open sessions for the device
// management screen.
func GetActiveSessionsHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sessions, err := sessionRepo.GetUserActiveSessions(userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{"sessions": sessions})
}

// EndSessionHandler signs out a single device by session id.
func EndSessionHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	session, err := sessionRepo.GetSession(sessionID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch session")
		return
	}
	if session == nil || session.UserID != userID {
		utils.NotFound(c, "Session not found")
		return
	}

	if err := sessionRepo.EndSession(sessionID); err != nil {
		utils.InternalError(c, "Failed to end session")
		return
	}

	utils.Success(c, gin.H{"message": "Session ended"})
}

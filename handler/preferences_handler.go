package handler

import (
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetPreferencesHandler returns the user's small UI preference map (font
// size, modal flags). Missing preferences come back as an empty object.
func GetPreferencesHandler(c *gin.Context, prefs *services.PreferenceStore) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	values, err := prefs.Get(c, userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch preferences")
		return
	}

	utils.Success(c, gin.H{"preferences": values})
}

// UpdatePreferencesHandler merges the posted keys into the stored map.
func UpdatePreferencesHandler(c *gin.Context, prefs *services.PreferenceStore) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var updates map[string]string
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := prefs.Set(c, userID, updates); err != nil {
		utils.InternalError(c, "Failed to save preferences")
		return
	}

	utils.Success(c, gin.H{"message": "Preferences saved"})
}

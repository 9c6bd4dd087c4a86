package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GoogleLoginHandler exchanges a Google ID token for the app's own token
// pair. Device info for the session list is derived from the request.
func GoogleLoginHandler(c *gin.Context, authService *usecase.AuthService) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	userAgent := c.Request.UserAgent()
	browser, os, deviceType := utils.ParseUserAgent(userAgent)
	location, _ := utils.GetLocationFromIP(c.ClientIP())

	device := usecase.SessionDevice{
		DisplayName: utils.GenerateSessionName(userAgent, location),
		DeviceInfo:  browser + " / " + os + " / " + deviceType,
		IPAddress:   c.ClientIP(),
	}

	profile, tokens, err := authService.LoginWithGoogle(c, req.IDToken, device)
	if err != nil {
		utils.Unauthorized(c, "Google sign-in failed")
		return
	}

	utils.Success(c, gin.H{
		"user":   dto.ToUserProfileResponse(profile, profileLinks(c)),
		"tokens": tokens,
	})
}

func RefreshTokenHandler(c *gin.Context, authService *usecase.AuthService) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	tokens, err := authService.Refresh(c, req.RefreshToken)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	utils.Success(c, tokens)
}

// LogoutHandler ends the current session and blacklists the presented
// tokens. The refresh token is optional in the body.
func LogoutHandler(c *gin.Context, authService *usecase.AuthService) {
	accessToken := c.GetString("access_token")
	if accessToken == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	c.ShouldBindJSON(&req) // body is optional

	if err := authService.Logout(c, accessToken, req.RefreshToken); err != nil {
		utils.InternalError(c, "Failed to log out")
		return
	}

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}

func LogoutAllHandler(c *gin.Context, authService *usecase.AuthService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := authService.LogoutAll(c, userID); err != nil {
		utils.InternalError(c, "Failed to end sessions")
		return
	}

	utils.Success(c, gin.H{"message": "Logged out of all sessions"})
}

func GetProfileHandler(c *gin.Context, authService *usecase.AuthService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	profile, err := authService.GetProfile(c, userID)
	if err != nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(profile, profileLinks(c)))
}

func profileLinks(c *gin.Context) map[string]dto.UserLink {
	base := utils.GetBaseURL(c)
	return map[string]dto.UserLink{
		"self":       {Href: base + "/auth/me", Method: "GET"},
		"memos":      {Href: base + "/memos", Method: "GET"},
		"logout":     {Href: base + "/auth/logout", Method: "POST"},
		"logout-all": {Href: base + "/auth/logout-all", Method: "POST"},
	}
}

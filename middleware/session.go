package middleware

import (
	"time"

	"main/model"
	"main/repository"

	"github.com/gin-gonic/gin"
)

// SessionActivityMiddleware bumps last_activity_at on the session attached
// to the request and ends sessions idle past the inactivity cap. It runs
// after AuthMiddleware and never rejects a request by itself; the access
// token stays the source of authentication.
func SessionActivityMiddleware(sessionRepo *repository.SessionRepo, inactivityCap time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(sessionID)
		if err != nil || session == nil || !session.IsActive {
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > inactivityCap {
			session.IsActive = false
			sessionRepo.UpdateSession(session)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(session)

		c.Set("session", session)
		c.Next()
	}
}

// SessionFromContext returns the session attached by the middleware, if any.
func SessionFromContext(c *gin.Context) *model.Session {
	if value, exists := c.Get("session"); exists {
		if session, ok := value.(*model.Session); ok {
			return session
		}
	}
	return nil
}

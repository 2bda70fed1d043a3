package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/siws/ports"
)

// SessionMiddleware creates middleware that resolves the session cookie to
// a user via the identity store
func SessionMiddleware(identity ports.IdentityStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing session cookie"})
			return
		}

		session, err := identity.FindSessionByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set("userID", session.UserID)

		c.Next()
	}
}

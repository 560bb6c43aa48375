package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/utils"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "user_email"
)

// AuthMiddleware validates the Bearer access token and stores the caller's
// identity on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, or "" outside the protected
// group.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

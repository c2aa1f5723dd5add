// Package authctx carries the authenticated user through the gin context,
// shared by the auth middleware and the handlers without an import cycle.
package authctx

import "github.com/gin-gonic/gin"

const (
	emailKey  = "user_email"
	userIDKey = "user_id"
)

func Set(c *gin.Context, userID, email string) {
	c.Set(userIDKey, userID)
	c.Set(emailKey, email)
}

// Email returns the authenticated user's email, empty when unauthenticated.
func Email(c *gin.Context) string {
	return c.GetString(emailKey)
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

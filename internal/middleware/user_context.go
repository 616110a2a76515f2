package middlewares

import "github.com/gin-gonic/gin"

const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
	UserRoleKey = "user_role"

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// GetUserID returns the authenticated user's id, or "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	return stringValue(c, UserIDKey)
}

// GetUserName returns the authenticated user's username.
func GetUserName(c *gin.Context) string {
	return stringValue(c, UserNameKey)
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) string {
	return stringValue(c, UserRoleKey)
}

// IsAdmin reports whether the user can act on moderation reports.
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == RoleAdmin
}

func stringValue(c *gin.Context, key string) string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

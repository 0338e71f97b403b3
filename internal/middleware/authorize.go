package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lguportal/portal/internal/models"
)

// RequireRoles admits only sessions holding one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			redirectToLogin(c)
			return
		}

		if _, ok := roleSet[session.Role]; !ok {
			c.String(http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}

		c.Next()
	}
}

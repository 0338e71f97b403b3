package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lguportal/portal/internal/security"
)

const (
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
)

const csrfTokenKey = "csrf_token"

// CSRF exposes the browser's token to handlers and rejects state-changing
// requests that do not echo it back. Must run after BrowserID.
func CSRF(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		browserID := BrowserIDFrom(c)
		c.Set(csrfTokenKey, security.CSRFToken(secret, browserID))

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFField)
		}
		if !security.VerifyCSRFToken(secret, browserID, token) {
			c.String(http.StatusForbidden, "Invalid security token. Please reload the page.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CSRFTokenFrom(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}

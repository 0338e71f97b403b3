package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie      = "portal_session"
	BrowserCookie      = "portal_sid"
	RegistrationCookie = "portal_registration"
)

// SetCookie writes an HttpOnly, SameSite=Lax cookie scoped to the whole site.
// A negative maxAge expires the cookie immediately.
func SetCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

func ClearCookie(c *gin.Context, name string, secure bool) {
	SetCookie(c, name, "", -1, secure)
}

// NoCache marks the response as uncacheable. Portal pages and redirects
// depend on who is logged in.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		c.Next()
	}
}

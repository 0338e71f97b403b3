package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

const browserIDKey = "browser_id"

const browserCookieMaxAge = 365 * 24 * 60 * 60

// BrowserID pins a random id to the browser. CSRF tokens are derived from it,
// so it exists before the first form is rendered.
func BrowserID(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(BrowserCookie)
		if err != nil || !validBrowserID(id) {
			id = ksuid.New().String()
			SetCookie(c, BrowserCookie, id, browserCookieMaxAge, secure)
		}
		c.Set(browserIDKey, id)
		c.Next()
	}
}

func BrowserIDFrom(c *gin.Context) string {
	return c.GetString(browserIDKey)
}

func validBrowserID(id string) bool {
	_, err := ksuid.Parse(id)
	return err == nil
}

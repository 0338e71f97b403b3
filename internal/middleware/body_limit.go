package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const msgRequestTooLarge = "The uploaded document is too large. Please choose a smaller file."

// BodyLimit caps every request body at limit bytes. Multipart forms are
// parsed here, ahead of CSRF, so an oversized upload is answered with 413
// instead of surfacing later as a form with every field missing.
func BodyLimit(limit, multipartMemory int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			rejectTooLarge(c)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

		if c.Request.Method == http.MethodPost && strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			var tooLarge *http.MaxBytesError
			if err := c.Request.ParseMultipartForm(multipartMemory); errors.As(err, &tooLarge) {
				rejectTooLarge(c)
				return
			}
		}
		c.Next()
	}
}

func rejectTooLarge(c *gin.Context) {
	c.Header("Connection", "close")
	c.String(http.StatusRequestEntityTooLarge, msgRequestTooLarge)
	c.Abort()
}

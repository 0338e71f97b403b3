package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lguportal/portal/internal/models"
	"lguportal/portal/internal/service"
)

const sessionKey = "current_session"

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// LoadSession attaches the session named by the portal cookie, if it is
// still live. It never rejects a request.
func LoadSession(auth SessionAuthenticator, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrNotAuthenticated) {
				log.Warn().Err(err).Msg("session lookup failed")
			}
			c.Next()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireSession sends browsers without a live session to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}

func redirectToLogin(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}

package middleware

import (
	"net/http"

	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "tm_session"

const sessionKey = "session"

// CurrentUser attaches the session to the request context when a valid
// session cookie is present. Anonymous requests pass through untouched.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if sess, err := service.ParseSession(token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page.
// Must run after CurrentUser.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession returns the authenticated session for the request, if any.
func GetSession(c *gin.Context) (*service.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*service.Session)
	return sess, ok
}

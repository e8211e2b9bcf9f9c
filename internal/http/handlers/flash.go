package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "tm_flash"

// Flash is a one-shot notice consumed by the next rendered page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	v := url.QueryEscape(kind + "|" + message)
	c.SetCookie(flashCookie, v, 60, "/", "", false, true)
}

// takeFlash reads and clears the flash cookie.
func takeFlash(c *gin.Context) (*Flash, bool) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil, false
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	v, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, false
	}
	kind, message, ok := strings.Cut(v, "|")
	if !ok {
		return nil, false
	}
	return &Flash{Kind: kind, Message: message}, true
}

// flashRedirect sets a flash and redirects in one step.
func flashRedirect(c *gin.Context, kind, message, location string) {
	setFlash(c, kind, message)
	c.Redirect(http.StatusFound, location)
}

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	tokenCookie = "token"
	ctxUserID   = "userId"
)

// identify resolves the session cookie, if any, to a user id. Missing or
// invalid cookies leave the request anonymous.
func (h *Handler) identify(c *gin.Context) {
	if tok, err := c.Cookie(tokenCookie); err == nil && tok != "" {
		if userId, err := h.services.ParseToken(tok); err == nil {
			c.Set(ctxUserID, userId)
		} else {
			h.clearAuthCookie(c)
		}
	}
	c.Next()
}

// requireLogin redirects anonymous visitors to the login page.
func (h *Handler) requireLogin(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Next()
		return
	}
	c.Redirect(http.StatusFound, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

// userIdMiddleware guards the JSON API. A session cookie is enough;
// otherwise a bearer token is required.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, userId)
	c.Next()
}

func currentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(h.cfg.TokenTTL.Seconds()), "/", "", h.cfg.SecureCookies, true)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

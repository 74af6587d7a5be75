package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"tgm_calc/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"
	ctxFlashes  = "flashes"
	maxFlashes  = 5
)

// flash queues a one-time message for the next rendered page.
func (h *Handler) flash(c *gin.Context, msg string) {
	msgs := append(pendingFlashes(c), msg)
	if len(msgs) > maxFlashes {
		msgs = msgs[len(msgs)-maxFlashes:]
	}
	c.Set(ctxFlashes, msgs)

	b, _ := json.Marshal(msgs)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 0, "/", "", h.cfg.SecureCookies, true)
}

// pendingFlashes returns messages queued earlier in this request or carried
// over by the flash cookie.
func pendingFlashes(c *gin.Context) []string {
	if v, ok := c.Get(ctxFlashes); ok {
		msgs, _ := v.([]string)
		return msgs
	}
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}

// popFlashes consumes the pending messages.
func (h *Handler) popFlashes(c *gin.Context) []string {
	msgs := pendingFlashes(c)
	if len(msgs) > 0 {
		c.Set(ctxFlashes, []string(nil))
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
	}
	return msgs
}

// redirectWithFlash is the usual ending of a form POST.
func (h *Handler) redirectWithFlash(c *gin.Context, location, msg string) {
	h.flash(c, msg)
	c.Redirect(http.StatusFound, location)
}

// currentUser loads the logged-in user, nil for anonymous requests.
func (h *Handler) currentUser(c *gin.Context) *models.User {
	id, ok := currentUserID(c)
	if !ok {
		return nil
	}
	u, err := h.services.CurrentUser(c.Request.Context(), id)
	if err != nil {
		if h.log != nil {
			h.log.Infow("current_user_lookup_failed", "user_id", id, "err", err)
		}
		return nil
	}
	return u
}

// render executes a page template with the layout fields filled in.
func (h *Handler) render(c *gin.Context, code int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		if u := h.currentUser(c); u != nil {
			data["CurrentUser"] = u
		}
	}
	data["Flashes"] = h.popFlashes(c)
	c.HTML(code, page, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not found"})
}

// renderError logs err and shows a generic error page.
func (h *Handler) renderError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error"})
}

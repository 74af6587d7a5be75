package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tgm_calc/internal/ocr"
	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

const msgAnalysisFailed = "Could not analyse the screenshot. Please try again later."

func screenshotID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

func (h *Handler) screenshot(c *gin.Context) {
	me, _ := currentUserID(c)
	id, ok := screenshotID(c)
	if !ok {
		h.notFound(c)
		return
	}

	a, err := h.services.Analyze(c.Request.Context(), me, id)
	if err != nil {
		if errors.Is(err, service.ErrScreenshotNotFound) {
			h.notFound(c)
			return
		}
		if h.log != nil {
			h.log.Errorw("screenshot_analysis_failed", "err", err, "user_id", me, "screenshot_id", id)
		}
		h.redirectWithFlash(c, "/profile", msgAnalysisFailed)
		return
	}
	h.render(c, http.StatusOK, "screenshot.html", gin.H{"Title": "Screenshot", "Analysis": a})
}

func (h *Handler) confirmUpdate(c *gin.Context) {
	me, _ := currentUserID(c)
	id, ok := screenshotID(c)
	if !ok {
		h.notFound(c)
		return
	}

	_, err := h.services.ConfirmImport(c.Request.Context(), me, id)
	switch {
	case err == nil:
		h.redirectWithFlash(c, "/profile", "Your profile has been updated with data from the screenshot.")
	case errors.Is(err, service.ErrScreenshotNotFound):
		h.notFound(c)
	case errors.Is(err, ocr.ErrNoData):
		h.redirectWithFlash(c, "/profile", "No troop or enforcer data was found in the screenshot.")
	default:
		if h.log != nil {
			h.log.Errorw("screenshot_import_failed", "err", err, "user_id", me, "screenshot_id", id)
		}
		h.redirectWithFlash(c, "/profile", msgAnalysisFailed)
	}
}

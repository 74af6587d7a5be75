package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"tgm_calc/internal/service"
	"tgm_calc/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	msgNoFile        = "No selected file"
	msgUploadFailed  = "Upload failed. Please try again."
	msgTooLarge      = "File is too large."
	msgAvatarUpdated = "Your avatar has been updated."
	msgShotUploaded  = "Your screenshot has been uploaded."
)

func (h *Handler) profile(c *gin.Context) {
	u := h.currentUser(c)
	if u == nil {
		h.clearAuthCookie(c)
		c.Redirect(http.StatusFound, "/auth/login")
		return
	}
	p, err := h.services.Profile.Profile(c.Request.Context(), u.ID, u.Username)
	if err != nil {
		h.renderError(c, "profile_load_failed", err, "user_id", u.ID)
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "Profile", "CurrentUser": u, "Profile": p})
}

// uploadProfileFile accepts a multipart "avatar" or "screenshot" part.
func (h *Handler) uploadProfileFile(c *gin.Context) {
	me, _ := currentUserID(c)
	if c.Request.ContentLength > h.cfg.MaxUploadBytes {
		h.redirectWithFlash(c, "/profile", msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.redirectWithFlash(c, "/profile", msgTooLarge)
			return
		}
		h.redirectWithFlash(c, "/profile", "No file part")
		return
	}

	field := ""
	for _, name := range []string{"avatar", "screenshot"} {
		if len(form.File[name]) > 0 {
			field = name
			break
		}
	}
	if field == "" {
		h.redirectWithFlash(c, "/profile", "No file part")
		return
	}
	fh := form.File[field][0]
	if fh.Filename == "" {
		h.redirectWithFlash(c, "/profile", msgNoFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.uploadFailed(c, err, me, field)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	if field == "avatar" {
		_, err = h.services.UpdateAvatar(ctx, me, fh.Filename, f)
	} else {
		_, err = h.services.UploadScreenshot(ctx, me, fh.Filename, f)
	}
	if err != nil {
		if errors.Is(err, service.ErrNoFile) {
			h.redirectWithFlash(c, "/profile", msgNoFile)
			return
		}
		h.uploadFailed(c, err, me, field)
		return
	}

	if field == "avatar" {
		h.redirectWithFlash(c, "/profile", msgAvatarUpdated)
		return
	}
	h.redirectWithFlash(c, "/profile", msgShotUploaded)
}

func (h *Handler) uploadFailed(c *gin.Context, err error, userID int, field string) {
	if h.log != nil {
		h.log.Errorw("profile_upload_failed", "err", err, "user_id", userID, "field", field)
	}
	h.redirectWithFlash(c, "/profile", msgUploadFailed)
}

func (h *Handler) changePasswordPage(c *gin.Context) {
	h.render(c, http.StatusOK, "change_password.html", gin.H{"Title": "Change password"})
}

func (h *Handler) changePassword(c *gin.Context) {
	me, _ := currentUserID(c)
	oldPw, newPw := c.PostForm("old_password"), c.PostForm("new_password")

	var errs []string
	switch {
	case oldPw == "" || newPw == "":
		errs = append(errs, "All fields are required.")
	case newPw != c.PostForm("new_password2"):
		errs = append(errs, "Passwords must match.")
	}
	if len(errs) == 0 {
		err := h.services.ChangePassword(c.Request.Context(), me, oldPw, newPw)
		switch {
		case err == nil:
			h.redirectWithFlash(c, "/profile", "Your password has been changed successfully.")
			return
		case errors.Is(err, service.ErrInvalidPassword):
			h.flash(c, "Invalid old password.")
		case errors.Is(err, service.ErrPasswordRequired):
			errs = append(errs, "New password is required.")
		case errors.Is(err, service.ErrPasswordTooLong):
			errs = append(errs, msgPasswordTooLong)
		default:
			h.renderError(c, "change_password_failed", err, "user_id", me)
			return
		}
	}
	h.render(c, http.StatusOK, "change_password.html", gin.H{"Title": "Change password", "Errors": errs})
}

// saveUserDetails answers 204 with an empty body; the flash shows on the next page.
func (h *Handler) saveUserDetails(c *gin.Context) {
	me, _ := currentUserID(c)
	if err := h.services.SaveDetails(c.Request.Context(), me, c.PostForm("user_troops"), c.PostForm("user_enforcers")); err != nil {
		if h.log != nil {
			h.log.Errorw("save_user_details_failed", "err", err, "user_id", me)
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	h.flash(c, "Your details have been saved.")
	c.Status(http.StatusNoContent)
}

func (h *Handler) avatarFile(c *gin.Context) {
	h.serveUpload(c, storage.AvatarsPrefix)
}

func (h *Handler) screenshotFile(c *gin.Context) {
	h.serveUpload(c, storage.ScreenshotsPrefix)
}

func (h *Handler) serveUpload(c *gin.Context, prefix string) {
	name := c.Param("name")
	rc, err := h.services.OpenUpload(c.Request.Context(), prefix, name)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			h.notFound(c)
			return
		}
		if h.log != nil {
			h.log.Errorw("serve_upload_failed", "err", err, "prefix", prefix, "name", name)
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	// sniff the type from the first bytes, then replay them
	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	head = head[:n]
	contentType := http.DetectContentType(head)
	if ext := filepath.Ext(name); ext == ".svg" || ext == ".html" || ext == ".htm" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, io.MultiReader(bytes.NewReader(head), rc), map[string]string{
		"X-Content-Type-Options": "nosniff",
		"Cache-Control":          "private, max-age=86400",
	})
}

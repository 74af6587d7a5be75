package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

func userPath(username string) string {
	return "/user/" + url.PathEscape(username)
}

func (h *Handler) userProfile(c *gin.Context) {
	me, _ := currentUserID(c)
	username := c.Param("username")

	p, err := h.services.Profile.Profile(c.Request.Context(), me, username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not found", "Message": "User " + username + " not found."})
			return
		}
		h.renderError(c, "profile_load_failed", err, "username", username)
		return
	}
	h.render(c, http.StatusOK, "user.html", gin.H{"Title": p.User.Username, "Profile": p, "OwnProfile": p.User.ID == me})
}

func (h *Handler) follow(c *gin.Context) {
	me, _ := currentUserID(c)
	username := c.Param("username")

	_, err := h.services.Follow(c.Request.Context(), me, username)
	switch {
	case err == nil:
		h.redirectWithFlash(c, userPath(username), "You are following "+username+"!")
	case errors.Is(err, service.ErrUserNotFound):
		h.redirectWithFlash(c, "/", "User "+username+" not found.")
	case errors.Is(err, service.ErrSelfFollow):
		h.redirectWithFlash(c, userPath(username), "You cannot follow yourself!")
	default:
		h.renderError(c, "follow_failed", err, "user_id", me, "username", username)
	}
}

func (h *Handler) unfollow(c *gin.Context) {
	me, _ := currentUserID(c)
	username := c.Param("username")

	_, err := h.services.Unfollow(c.Request.Context(), me, username)
	switch {
	case err == nil:
		h.redirectWithFlash(c, userPath(username), "You are not following "+username+".")
	case errors.Is(err, service.ErrUserNotFound):
		h.redirectWithFlash(c, "/", "User "+username+" not found.")
	case errors.Is(err, service.ErrSelfFollow):
		h.redirectWithFlash(c, userPath(username), "You cannot unfollow yourself!")
	default:
		h.renderError(c, "unfollow_failed", err, "user_id", me, "username", username)
	}
}

func (h *Handler) findFriends(c *gin.Context) {
	data := gin.H{"Title": "Find friends"}
	if c.Request.Method == http.MethodPost {
		me, _ := currentUserID(c)
		term := strings.TrimSpace(c.PostForm("username"))
		users, err := h.services.FindFriends(c.Request.Context(), me, term)
		if err != nil {
			h.renderError(c, "find_friends_failed", err, "term", term)
			return
		}
		data["Term"] = term
		data["Searched"] = true
		data["Users"] = users
	}
	h.render(c, http.StatusOK, "find_friends.html", data)
}

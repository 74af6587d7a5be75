package handlers

import (
	"errors"
	"net/http"
	"strings"

	"tgm_calc/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

const msgPasswordTooLong = "Password must be at most 72 bytes long."

// signUpMessage maps registration errors to what the form shows.
func signUpMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		return "Please use a different username.", true
	case errors.Is(err, service.ErrInvalidUsername):
		return "Invalid characters in username.", true
	case errors.Is(err, service.ErrUsernameRequired):
		return "Username is required.", true
	case errors.Is(err, service.ErrPasswordRequired):
		return "Password is required.", true
	case errors.Is(err, service.ErrPasswordTooLong):
		return msgPasswordTooLong, true
	}
	return "", false
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "credentials"
// @Success      200    {object}  map[string]int
// @Failure      400    {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
		}
		if msg, ok := signUpMessage(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "credentials"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) registerPage(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *Handler) register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var errs []string
	if username == "" {
		errs = append(errs, "Username is required.")
	}
	if password == "" {
		errs = append(errs, "Password is required.")
	} else if password != c.PostForm("password2") {
		errs = append(errs, "Passwords must match.")
	}
	if len(errs) == 0 {
		_, err := h.services.SignUp(c.Request.Context(), username, password)
		if err == nil {
			h.redirectWithFlash(c, "/auth/login", "Congratulations, you are now a registered user!")
			return
		}
		msg, ok := signUpMessage(err)
		if !ok {
			h.renderError(c, "auth_register_failed", err, "username", username)
			return
		}
		errs = append(errs, msg)
	}

	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Username": username, "Errors": errs})
}

func (h *Handler) loginPage(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Next": c.Query("next")})
}

func (h *Handler) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.Query("next")

	if username == "" || password == "" {
		h.render(c, http.StatusOK, "login.html", gin.H{
			"Title": "Login", "Username": username, "Next": next,
			"Errors": []string{"Username and password are required."},
		})
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrUserNotFound) && !errors.Is(err, service.ErrInvalidPassword) {
			h.renderError(c, "auth_login_failed", err, "username", username)
			return
		}
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", username, "err", err)
		}
		h.render(c, http.StatusOK, "login.html", gin.H{
			"Title": "Login", "Username": username, "Next": next,
			"Errors": []string{"Invalid username or password."},
		})
		return
	}

	h.setAuthCookie(c, token)
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.Redirect(http.StatusFound, "/")
}

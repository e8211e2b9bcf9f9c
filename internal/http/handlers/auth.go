package handlers

import (
	"errors"
	"net/http"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/middleware"
	"taskmanager/internal/logger"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginForm renders the login page.
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{})
}

// Login authenticates the posted credentials and establishes a session.
// A missing user and a wrong password produce the same message, so the
// response never reveals which one failed.
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		flashRedirect(c, "error", "Email and password are required", "/login")
		return
	}

	email = service.NormalizeEmail(email)

	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			flashRedirect(c, "error", "Invalid email or password", "/login")
			return
		}
		logger.Error("login lookup failed", "error", err)
		flashRedirect(c, "error", "Login failed, please try again", "/login")
		return
	}

	if !service.CheckPassword(user.HashedPassword, password) {
		flashRedirect(c, "error", "Invalid email or password", "/login")
		return
	}

	token, err := service.IssueSession(user.ID, user.Email)
	if err != nil {
		logger.Error("issue session failed", "error", err)
		flashRedirect(c, "error", "Login failed, please try again", "/login")
		return
	}

	c.SetCookie(middleware.SessionCookie, token,
		int(service.SessionLifetime.Seconds()), "/", "", h.SecureCookies, true)

	logger.Info("user logged in", "user_id", user.ID)
	flashRedirect(c, "success", "Login successful", "/")
}

// RegisterForm renders the registration page.
func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register", gin.H{})
}

// Register creates an account. The existence check and the insert are not
// atomic; a concurrent duplicate surfaces from the unique index as
// domain.ErrConflict and is reported the same way as a plain duplicate.
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		flashRedirect(c, "error", "Email and password are required", "/register")
		return
	}

	email = service.NormalizeEmail(email)
	ctx := c.Request.Context()

	_, err := h.Users.GetByEmail(ctx, email)
	if err == nil {
		flashRedirect(c, "error", "User already exists", "/register")
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("register lookup failed", "error", err)
		flashRedirect(c, "error", "Registration failed, please try again", "/register")
		return
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		logger.Error("hash password failed", "error", err)
		flashRedirect(c, "error", "Registration failed, please try again", "/register")
		return
	}

	user, err := h.Users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			flashRedirect(c, "error", "User already exists", "/register")
			return
		}
		logger.Error("create user failed", "error", err)
		flashRedirect(c, "error", "Registration failed, please try again", "/register")
		return
	}

	logger.Info("user registered", "user_id", user.ID)
	flashRedirect(c, "success", "Registration successful. Please login.", "/login")
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
	flashRedirect(c, "success", "You have been logged out", "/login")
}

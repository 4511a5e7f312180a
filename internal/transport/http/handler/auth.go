package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/app"
	"chatrelay/internal/transport/http/middleware"
)

type AuthHandler struct {
	authService *app.AuthService
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login accepts form-encoded credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
		case errors.Is(err, app.ErrIncorrectPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect password"})
		case errors.Is(err, app.ErrPasswordUpdate):
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"username": result.Username,
		"token":    result.Token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}

	profile, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

package handlers

import (
	"errors"
	"net/http"

	"gamebus_backend/internal/middleware"
	"gamebus_backend/internal/models"
	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service. A nil service means the API
// runs without authentication.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// LoginUser handles operator login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	if h.authService == nil {
		utils.RespondNotFound(c, "Authentication is disabled.")
		return
	}
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "LoginUser: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", err.Error()))
		} else {
			utils.LogError(err, "LoginUser: Error from authService.Login")
			utils.RespondInternal(c, "Failed to login.")
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser returns the operator bound to the request token.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	if h.authService == nil {
		c.JSON(http.StatusOK, gin.H{"auth_enabled": false})
		return
	}
	username := c.GetString(middleware.ContextUsername)
	op, err := h.authService.Profile(username)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_enabled": true, "username": op.Username})
}

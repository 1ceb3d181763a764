package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/api/middleware"
	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// AuthHandler token endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login issues an access token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "unable to log in with provided credentials")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout revokes the presented token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), middleware.ClaimsFrom(c)); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "logged out"})
}

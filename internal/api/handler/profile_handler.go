package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// ProfileHandler staff profile management
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// ListProfiles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req dto.ProfileListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.profileSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetProfile GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := parseID(c, 23001, "profile not found")
	if !ok {
		return
	}

	p, err := h.profileSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, p)
}

// UpdateProfile PUT|PATCH /api/v1/profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, ok := parseID(c, 23001, "profile not found")
	if !ok {
		return
	}
	var req dto.ProfileInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, p)
}

// DeleteProfile DELETE /api/v1/profiles/:id
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	id, ok := parseID(c, 23001, "profile not found")
	if !ok {
		return
	}

	if err := h.profileSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	if errors.Is(err, service.ErrProfileNotFound) {
		response.NotFound(c, 23001, "profile not found")
		return
	}
	response.InternalError(c)
}

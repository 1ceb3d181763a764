package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// UserHandler identity endpoints
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser identity plus its profile
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, user)
}

// ListUsers GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser self, or anyone for staff
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateUser self, or anyone for staff
// PUT|PATCH /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, caller.UserID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.NoContent(c)
}

// ── current identity ──

// GetCurrentUser GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Me(c.Request.Context(), caller.UserID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateCurrentUser PUT /api/v1/users/me
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	user, err := h.userSvc.UpdateMe(c.Request.Context(), caller.UserID, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangePassword POST /api/v1/users/me/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), caller.UserID, &req); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, dto.MessageResponse{Message: "password changed successfully"})
}

// Statistics GET /api/v1/users/statistics
func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.userSvc.Statistics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

func (h *UserHandler) parseID(c *gin.Context) (uint, bool) {
	return parseID(c, 20001, "user not found")
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 20002, "cannot delete yourself")
	default:
		response.InternalError(c)
	}
}

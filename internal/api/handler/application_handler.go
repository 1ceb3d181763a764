package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/api/middleware"
	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// ApplicationHandler admissions endpoints
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler creates an ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// CreateApplication public submission
// POST /api/v1/applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dto.CreateApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.Created(c, app)
}

// ListApplications staff see every record; everyone else only decided ones
// GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if !bindQuery(c, &req) {
		return
	}

	if middleware.CallerFrom(c).HasStaffAccess() {
		list, total, err := h.appSvc.List(c.Request.Context(), &req)
		if err != nil {
			response.InternalError(c)
			return
		}
		response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
		return
	}

	list, total, err := h.appSvc.ListPublic(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetApplication GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	app, err := h.appSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// UpdateApplication status / notes; a status change stamps the reviewer
// PUT|PATCH /api/v1/applications/:id
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateApplicationRequest
	if !bindJSON(c, &req) {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Update(c.Request.Context(), id, &req, caller.UserID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// DeleteApplication DELETE /api/v1/applications/:id
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.appSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.NoContent(c)
}

// ApproveApplication POST /api/v1/applications/:id/approve
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	h.review(c, service.ApplicationService.Approve)
}

// RejectApplication POST /api/v1/applications/:id/reject
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	h.review(c, service.ApplicationService.Reject)
}

func (h *ApplicationHandler) review(c *gin.Context, apply func(svc service.ApplicationService, ctx context.Context, id, actorID uint) (*dto.ApplicationResponse, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := apply(h.appSvc, c.Request.Context(), id, caller.UserID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// PendingApplications GET /api/v1/applications/pending
func (h *ApplicationHandler) PendingApplications(c *gin.Context) {
	list, err := h.appSvc.Pending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Statistics GET /api/v1/applications/statistics
func (h *ApplicationHandler) Statistics(c *gin.Context) {
	stats, err := h.appSvc.Statistics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// ── bulk ──

// BulkApprove POST /api/v1/applications/bulk/approve
func (h *ApplicationHandler) BulkApprove(c *gin.Context) {
	h.bulk(c, service.ApplicationService.ApproveAll)
}

// BulkReject POST /api/v1/applications/bulk/reject
func (h *ApplicationHandler) BulkReject(c *gin.Context) {
	h.bulk(c, service.ApplicationService.RejectAll)
}

// BulkMarkReviewed POST /api/v1/applications/bulk/mark-reviewed
func (h *ApplicationHandler) BulkMarkReviewed(c *gin.Context) {
	h.bulk(c, service.ApplicationService.MarkReviewedAll)
}

func (h *ApplicationHandler) bulk(c *gin.Context, apply func(svc service.ApplicationService, ctx context.Context, ids []uint) (int64, error)) {
	var req dto.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := apply(h.appSvc, c.Request.Context(), req.IDs)
	if err != nil {
		respondBulkError(c, err)
		return
	}

	response.OK(c, dto.BulkResult{Updated: n})
}

func (h *ApplicationHandler) parseID(c *gin.Context) (uint, bool) {
	return parseID(c, 21001, "application not found")
}

func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 21001, "application not found")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// MessageHandler contact form endpoints
type MessageHandler struct {
	msgSvc service.MessageService
}

// NewMessageHandler creates a MessageHandler
func NewMessageHandler(msgSvc service.MessageService) *MessageHandler {
	return &MessageHandler{msgSvc: msgSvc}
}

// CreateMessage public submission; client ip and user agent are recorded
// POST /api/v1/messages
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req dto.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	client := service.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	msg, err := h.msgSvc.Create(c.Request.Context(), &req, client)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}

	response.Created(c, msg)
}

// ListMessages GET /api/v1/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	var req dto.MessageListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.msgSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetMessage GET /api/v1/messages/:id
func (h *MessageHandler) GetMessage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := h.msgSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}

	response.OK(c, msg)
}

// UpdateMessage PUT|PATCH /api/v1/messages/:id
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.msgSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}

	response.OK(c, msg)
}

// DeleteMessage DELETE /api/v1/messages/:id
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.msgSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleMessageError(c, err)
		return
	}

	response.NoContent(c)
}

// ── transitions ──

// MarkAsRead POST /api/v1/messages/:id/mark-as-read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	h.transition(c, service.MessageService.MarkAsRead)
}

// MarkAsReplied POST /api/v1/messages/:id/mark-as-replied
func (h *MessageHandler) MarkAsReplied(c *gin.Context) {
	h.transition(c, service.MessageService.MarkAsReplied)
}

// Archive POST /api/v1/messages/:id/archive
func (h *MessageHandler) Archive(c *gin.Context) {
	h.transition(c, service.MessageService.Archive)
}

func (h *MessageHandler) transition(c *gin.Context, apply func(svc service.MessageService, ctx context.Context, id uint) (*dto.ContactMessageResponse, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := apply(h.msgSvc, c.Request.Context(), id)
	if err != nil {
		h.handleMessageError(c, err)
		return
	}

	response.OK(c, msg)
}

// NewMessages GET /api/v1/messages/new
func (h *MessageHandler) NewMessages(c *gin.Context) {
	list, err := h.msgSvc.New(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Statistics GET /api/v1/messages/statistics
func (h *MessageHandler) Statistics(c *gin.Context) {
	stats, err := h.msgSvc.Statistics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// ── bulk ──

// BulkMarkAsRead only new messages count as updated
// POST /api/v1/messages/bulk/mark-as-read
func (h *MessageHandler) BulkMarkAsRead(c *gin.Context) {
	h.bulk(c, service.MessageService.MarkAllRead)
}

// BulkMarkAsReplied POST /api/v1/messages/bulk/mark-as-replied
func (h *MessageHandler) BulkMarkAsReplied(c *gin.Context) {
	h.bulk(c, service.MessageService.MarkAllReplied)
}

// BulkArchive POST /api/v1/messages/bulk/archive
func (h *MessageHandler) BulkArchive(c *gin.Context) {
	h.bulk(c, service.MessageService.ArchiveAll)
}

func (h *MessageHandler) bulk(c *gin.Context, apply func(svc service.MessageService, ctx context.Context, ids []uint) (int64, error)) {
	var req dto.BulkIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := apply(h.msgSvc, c.Request.Context(), req.IDs)
	if err != nil {
		respondBulkError(c, err)
		return
	}

	response.OK(c, dto.BulkResult{Updated: n})
}

func (h *MessageHandler) parseID(c *gin.Context) (uint, bool) {
	return parseID(c, 22001, "message not found")
}

func (h *MessageHandler) handleMessageError(c *gin.Context, err error) {
	if respondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		response.NotFound(c, 22001, "message not found")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler full dumps, JSON by default or an xlsx download
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportApplications GET /api/v1/applications/export?format=json|xlsx
func (h *ExportHandler) ExportApplications(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	if format == service.ExportXLSX {
		h.download(c, h.exportSvc.ApplicationsXLSX)
		return
	}

	list, err := h.exportSvc.Applications(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ExportMessages GET /api/v1/messages/export?format=json|xlsx
func (h *ExportHandler) ExportMessages(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}
	if format == service.ExportXLSX {
		h.download(c, h.exportSvc.MessagesXLSX)
		return
	}

	list, err := h.exportSvc.Messages(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

func (h *ExportHandler) download(c *gin.Context, build func(ctx context.Context) (*bytes.Buffer, string, error)) {
	buf, filename, err := build(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func exportFormat(c *gin.Context) (string, bool) {
	format := c.DefaultQuery("format", service.ExportJSON)
	if format != service.ExportJSON && format != service.ExportXLSX {
		response.ValidationFailed(c, map[string][]string{"format": {"format must be one of json, xlsx"}})
		return "", false
	}
	return format, true
}

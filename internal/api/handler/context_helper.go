package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/internal/access"
	"github.com/22146025/lord-s-heart-educational-complex/internal/api/middleware"
	"github.com/22146025/lord-s-heart-educational-complex/internal/api/validate"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// MustGetCaller the authenticated caller; writes 401 and returns false for
// anonymous requests. Callers should return when ok is false.
func MustGetCaller(c *gin.Context) (access.Caller, bool) {
	caller := middleware.CallerFrom(c)
	if !caller.IsAuthenticated() {
		response.Unauthorized(c, 10002, "authentication credentials were not provided")
		return access.Anonymous, false
	}
	return caller, true
}

// parseID the ":id" path parameter; anything but a positive integer is a 404
func parseID(c *gin.Context, notFoundCode int, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, notFoundCode, notFoundMsg)
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds and validates the body, answering 400 (or 413) on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates the query string
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.ValidationFailed(c, validate.Fields(err))
}

// respondValidation writes 400 when err carries per-field messages
func respondValidation(c *gin.Context, err error) bool {
	var verr *pkgerrors.ValidationError
	if errors.As(err, &verr) {
		response.ValidationFailed(c, verr.Fields)
		return true
	}
	return false
}

// respondBulkError shared by the bulk endpoints of every module
func respondBulkError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmptySelection) {
		response.ValidationFailed(c, map[string][]string{"ids": {"select at least one record"}})
		return
	}
	response.InternalError(c)
}

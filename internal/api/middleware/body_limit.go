package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/22146025/lord-s-heart-educational-complex/pkg/response"
)

// BodyLimit caps the request body at maxBytes; 0 disables the cap.
// Requests announcing a larger Content-Length are refused up front. Streamed
// bodies fail at read time and the binding helpers answer with the same 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}

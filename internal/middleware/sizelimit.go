package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
)

// DefaultMaxBodySize fits the largest bulk attendance submission with room
// to spare.
const DefaultMaxBodySize int64 = 1 << 20

// SizeLimit refuses bodies over maxBytes. A declared length is checked up
// front; chunked bodies are capped while reading.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				handler.NewErrorResponse(fmt.Sprintf("request body exceeds %d bytes", maxBytes)))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

package httputil

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// BindJSON decodes and validates the request body. Every failure comes back
// as an InvalidInput error.
func BindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return apperrors.BadRequest("request body is required", err)
	}
	if msg := validator.Message(err); msg != "" {
		return apperrors.BadRequest(msg, err)
	}
	return apperrors.BadRequest("invalid request body", err)
}

// BearerToken extracts the token from an Authorization header value. The
// "Bearer " prefix is optional; an empty string means no token.
func BearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	header = strings.TrimSpace(header)
	if strings.EqualFold(fields[0], "bearer") {
		header = header[len(fields[0]):]
	}
	return strings.TrimSpace(header)
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/handler"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// ErrorHandler renders the last error pushed with c.Error in the error
// envelope. Internal causes are logged, never returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperrors.From(c.Errors.Last().Err)
		status := appErr.StatusCode()

		event := log.Debug()
		if appErr.Code == apperrors.ErrInternal {
			event = log.Error()
		}
		event.
			Err(c.Errors.Last().Err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("code", appErr.Code.String()).
			Int("status", status).
			Msg("request failed")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, handler.NewErrorResponse(appErr.Message))
	}
}

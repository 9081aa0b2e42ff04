package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("appointment", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid doctor", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized("", nil), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"internal", Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := stderrors.New("connection reset")

	appErr := From(fmt.Errorf("failed to list: %w", cause))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)

	assert.Nil(t, From(nil))
}

func TestFromKeepsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", Forbidden("not your appointment"))

	appErr := From(wrapped)
	assert.Equal(t, ErrForbidden, appErr.Code)
	assert.Equal(t, "not your appointment", appErr.Message)
	assert.True(t, Is(wrapped, ErrForbidden))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "unauthorized", Unauthorized("", nil).Message)
	assert.Equal(t, "access denied", Forbidden("").Message)
	assert.Equal(t, "medicine not found", NotFound("medicine", nil).Error())
	assert.Equal(t, "InvalidInput", ErrBadRequest.String())
}

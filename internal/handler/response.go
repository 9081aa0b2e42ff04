package handler

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with. Data is set on
// success, Message on error.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// Respond writes data in the success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

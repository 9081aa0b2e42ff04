package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/service/directory"
)

type Handler struct {
	service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.ListDoctors)
	r.GET("/doctor", h.ListDoctors)

	hr := r.Group("/hr")
	{
		hr.GET("/employees", h.ListEmployees)
		hr.GET("/doctors", h.ListStaffDoctors)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}
	handler.Respond(c, http.StatusOK, doctors)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.service.ListEmployees(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}
	handler.Respond(c, http.StatusOK, employees)
}

func (h *Handler) ListStaffDoctors(c *gin.Context) {
	doctors, err := h.service.ListStaffDoctors(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}
	handler.Respond(c, http.StatusOK, doctors)
}

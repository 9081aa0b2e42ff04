package attendance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/attendance"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	employee := r.Group("/employee/attendance")
	{
		employee.GET("", h.ListOwn)
		employee.POST("", h.Mark)
	}

	hr := r.Group("/hr/attendance")
	{
		hr.GET("", h.ListAll)
		hr.POST("", h.MarkBulk)
	}
}

func (h *Handler) Mark(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	rec, err := h.service.Mark(c.Request.Context(), handler.CurrentAccount(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, rec)
}

func (h *Handler) MarkBulk(c *gin.Context) {
	var req model.BulkAttendanceRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.MarkBulk(c.Request.Context(), handler.CurrentAccount(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, resp)
}

func (h *Handler) ListOwn(c *gin.Context) {
	records, err := h.service.ListOwn(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, records)
}

func (h *Handler) ListAll(c *gin.Context) {
	views, err := h.service.ListAll(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, views)
}

package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/appointment"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.PUT("/:id/verify", h.VerifyAppointment)
	}

	// Role-prefixed aliases used by the dashboards.
	r.GET("/employee/appointments", h.ListAppointments)
	r.POST("/employee/appointments", h.CreateAppointment)
	r.GET("/doctor/appointments", h.ListAppointments)

	hr := r.Group("/hr/appointments")
	{
		hr.GET("", h.ListAllAppointments)
		hr.PUT("/:id/verify", h.VerifyAppointmentAsHR)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	apt, err := h.service.Create(c.Request.Context(), handler.CurrentAccount(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusCreated, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	apts, err := h.service.List(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, apts)
}

func (h *Handler) ListAllAppointments(c *gin.Context) {
	apts, err := h.service.ListAll(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, apts)
}

func (h *Handler) VerifyAppointment(c *gin.Context) {
	apt, err := h.service.Verify(c.Request.Context(), handler.CurrentAccount(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, apt)
}

func (h *Handler) VerifyAppointmentAsHR(c *gin.Context) {
	apt, err := h.service.VerifyAsHR(c.Request.Context(), handler.CurrentAccount(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, apt)
}

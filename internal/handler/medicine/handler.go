package medicine

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/medicine"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *medicine.Service
}

func NewHandler(service *medicine.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	medicines := r.Group("/medicines")
	{
		medicines.POST("", h.CreateMedicine)
		medicines.GET("", h.ListMedicines)
	}
	r.GET("/doctor/medicines", h.ListOwnMedicines)
	r.GET("/hr/medicines", h.ListAllMedicines)
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var req model.CreateMedicineRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	med, err := h.service.Create(c.Request.Context(), handler.CurrentAccount(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusCreated, med)
}

func (h *Handler) ListMedicines(c *gin.Context) {
	h.respondList(c, h.service.List)
}

func (h *Handler) ListOwnMedicines(c *gin.Context) {
	h.respondList(c, h.service.ListOwn)
}

func (h *Handler) ListAllMedicines(c *gin.Context) {
	h.respondList(c, h.service.ListAll)
}

type listFunc func(ctx context.Context, caller *model.Account) ([]*model.MedicineView, error)

func (h *Handler) respondList(c *gin.Context, list listFunc) {
	meds, err := list(c.Request.Context(), handler.CurrentAccount(c))
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, meds)
}

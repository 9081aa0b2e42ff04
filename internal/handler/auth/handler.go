package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes mounts the endpoints that need a valid token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	account, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusCreated, account)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	token := httputil.BearerToken(c.GetHeader("Authorization"))
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *Handler) Me(c *gin.Context) {
	handler.Respond(c, http.StatusOK, handler.CurrentAccount(c))
}

package feed

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/middleware"
	"github.com/run-write/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", h.get)
}

// GET /feed?limit=N
func (h *Handler) get(c *gin.Context) {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	callerID := middleware.CurrentUserID(c)
	response.OK(c, h.svc.Get(c.Request.Context(), callerID, limit))
}

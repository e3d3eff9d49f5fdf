package like

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/middleware"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/likes", authMW)
	g.POST("", h.toggle)
}

// POST /likes
func (h *Handler) toggle(c *gin.Context) {
	var dto ToggleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Toggle(middleware.CurrentUserID(c), dto.PostID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			response.NotFoundMsg(c, "that post is gone")
		case errors.Is(err, models.ErrBanned):
			response.ForbiddenMsg(c, "your account has been banned")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, result)
}

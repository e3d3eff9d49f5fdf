package prompt

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/prompts")
	g.GET("", h.list)
	g.GET("/today", h.today)
	g.GET("/:date", h.forDate)

	rg.POST("/admin/prompts", authMW, adminMW, h.upsert)
}

// GET /prompts/today
func (h *Handler) today(c *gin.Context) {
	h.respond(c, func() (*PromptResponse, error) { return h.svc.Today() })
}

// GET /prompts/:date
func (h *Handler) forDate(c *gin.Context) {
	h.respond(c, func() (*PromptResponse, error) { return h.svc.ForDate(c.Param("date")) })
}

// GET /prompts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	prompts, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, prompts, pag)
}

// POST /admin/prompts
func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertPromptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Upsert(dto)
	if err != nil {
		if errors.Is(err, ErrDateFormat) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) respond(c *gin.Context, fn func() (*PromptResponse, error)) {
	p, err := fn()
	if err != nil {
		switch {
		case errors.Is(err, ErrDateFormat):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrPromptMissing):
			response.NotFoundMsg(c, "no prompt today, write about anything")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, p)
}

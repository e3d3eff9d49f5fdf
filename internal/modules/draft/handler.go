package draft

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/middleware"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/drafts", authMW)
	g.POST("", h.save)
	g.GET("", h.get)
	g.GET("/history", h.history)
}

// POST /drafts
func (h *Handler) save(c *gin.Context) {
	var dto SaveDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Save(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrDateFormat):
			response.BadRequest(c, err.Error())
		case errors.Is(err, models.ErrBanned):
			response.ForbiddenMsg(c, "your account has been banned")
		default:
			response.InternalError(c, err)
		}
		return
	}
	if result.NewBadges == nil {
		result.NewBadges = []gamification.Badge{}
	}
	response.OK(c, result)
}

// GET /drafts?date=YYYY-MM-DD
func (h *Handler) get(c *gin.Context) {
	entry, err := h.svc.Get(middleware.CurrentUserID(c), c.Query("date"))
	if err != nil {
		if errors.Is(err, ErrDateFormat) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if entry == nil {
		response.OK(c, draftResponse{Date: c.Query("date")})
		return
	}
	response.OK(c, draftResponse{
		Date:      entry.Date,
		Text:      entry.Text,
		WordCount: entry.WordCount,
		Published: entry.Published,
	})
}

// GET /drafts/history
func (h *Handler) history(c *gin.Context) {
	q := pagination.FromContext(c)
	entries, pag, err := h.svc.History(middleware.CurrentUserID(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		out[i] = historyEntry{Date: e.Date, WordCount: e.WordCount, Published: e.Published}
	}
	response.Paged(c, out, pag)
}

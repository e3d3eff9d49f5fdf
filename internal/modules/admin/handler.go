package admin

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/models"
	"github.com/run-write/core/internal/modules/publish"
	"github.com/run-write/core/internal/pkg/pagination"
	"github.com/run-write/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the admin surface. Both middlewares are required:
// authMW resolves the user, adminMW rejects non-admins.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW, adminMW)
	g.PATCH("/posts/:id/pin", h.setPin)
	g.DELETE("/posts/:id", h.deletePost)
	g.GET("/users", h.users)
	g.POST("/users/:id/ban", h.ban)
	g.POST("/users/:id/unban", h.unban)
	g.POST("/badges", h.grantBadge)
	g.POST("/feed/reconcile", h.reconcile)
	g.GET("/jobs", h.jobs)
	g.POST("/jobs/:name/run", h.runJob)
}

// PATCH /admin/posts/:id/pin
func (h *Handler) setPin(c *gin.Context) {
	var dto SetPinDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tier := models.PinType(dto.PinType)
	if !models.ValidPinType(tier) {
		response.BadRequest(c, "pin_type must be one of: none, favorite, announcement")
		return
	}
	if err := h.svc.SetPin(c.Request.Context(), c.Param("id"), tier); err != nil {
		if errors.Is(err, publish.ErrPostNotFound) {
			response.NotFoundMsg(c, "that post is gone")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// DELETE /admin/posts/:id
func (h *Handler) deletePost(c *gin.Context) {
	if err := h.svc.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, publish.ErrPostNotFound) {
			response.NotFoundMsg(c, "that post is gone")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /admin/users
func (h *Handler) users(c *gin.Context) {
	q := pagination.FromContext(c)
	users, pag, err := h.svc.Users(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, users, pag)
}

// POST /admin/users/:id/ban
func (h *Handler) ban(c *gin.Context) {
	result, err := h.svc.BanUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}

// POST /admin/users/:id/unban
func (h *Handler) unban(c *gin.Context) {
	if err := h.svc.UnbanUser(c.Param("id")); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /admin/badges
func (h *Handler) grantBadge(c *gin.Context) {
	var dto GrantBadgeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fresh, err := h.svc.GrantBadge(dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownBadge), errors.Is(err, ErrRuleBadge):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"granted": fresh})
}

// POST /admin/feed/reconcile
func (h *Handler) reconcile(c *gin.Context) {
	n, err := h.svc.ReconcileFeed(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"posts": n})
}

// GET /admin/jobs
func (h *Handler) jobs(c *gin.Context) {
	response.OK(c, h.svc.Jobs())
}

// POST /admin/jobs/:name/run
func (h *Handler) runJob(c *gin.Context) {
	if err := h.svc.RunJob(c.Request.Context(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.NoContent(c)
}

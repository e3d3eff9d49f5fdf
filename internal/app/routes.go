package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/run-write/core/internal/middleware"
	"github.com/run-write/core/internal/modules/admin"
	"github.com/run-write/core/internal/modules/auth"
	"github.com/run-write/core/internal/modules/draft"
	"github.com/run-write/core/internal/modules/feed"
	"github.com/run-write/core/internal/modules/gamification"
	"github.com/run-write/core/internal/modules/like"
	"github.com/run-write/core/internal/modules/prompt"
	"github.com/run-write/core/internal/modules/publish"
	"github.com/run-write/core/internal/modules/user"
	pkgredis "github.com/run-write/core/internal/pkg/redis"
	"github.com/run-write/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client, loc *time.Location) {
	r := a.router
	db := a.db
	log := a.logger

	authMW := middleware.Auth(db)
	adminMW := middleware.RequireAdmin(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "run-write-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/run-write/core",
		"issues":   "https://github.com/run-write/core/issues",
	}

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw(), log))
	r.Use(middleware.Idempotence(rc.Raw()))

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", authMW, adminMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Services
	gamSvc := gamification.NewService(db, log)
	feedIdx := feed.NewIndex(rc.Raw())
	feedSvc := feed.NewService(db, feedIdx, log)
	pubSvc := publish.NewService(db, feedIdx, log)
	draftSvc := draft.NewService(db, gamSvc, pubSvc, log)
	likeSvc := like.NewService(db, gamSvc, log)
	userSvc := user.NewService(db, gamSvc, log)
	adminSvc := admin.NewService(db, pubSvc, feedSvc, gamSvc, a.sched, log)
	promptSvc := prompt.NewService(db, loc, log)
	authSvc := auth.NewService(db, a.cfg, log)

	a.feedSvc = feedSvc

	// Routes
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)
	draft.NewHandler(draftSvc).RegisterRoutes(api, authMW)
	like.NewHandler(likeSvc).RegisterRoutes(api, authMW)
	user.NewHandler(userSvc).RegisterRoutes(api, authMW)
	feed.NewHandler(feedSvc).RegisterRoutes(api)
	prompt.NewHandler(promptSvc).RegisterRoutes(api, authMW, adminMW)
	admin.NewHandler(adminSvc).RegisterRoutes(api, authMW, adminMW)
}

func httpCacheSkipPaths() []string {
	return []string{
		apiPrefix + "/uptime",
		apiPrefix + "/ping",
		apiPrefix + "/auth/exchange",
		apiPrefix + "/auth/login",
		apiPrefix + "/auth/session",
		apiPrefix + "/clean_cache",
	}
}

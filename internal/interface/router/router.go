package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/cache"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/di"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/presenter"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api")

	api.GET("", func(c echo.Context) error {
		return presenter.OK(c, map[string]string{
			"message": "PDF Operations API",
		})
	})

	r.setupAuthRoutes(api)
	r.setupUserRoutes(api)
	r.setupHistoryRoutes(api)
	r.setupPDFRoutes(api)
}

// setupAuthRoutes は認証関連ルートを設定します
func (r *Router) setupAuthRoutes(api *echo.Group) {
	authGroup := api.Group("/auth")

	// Public auth routes
	authGroup.POST("/register", r.handlers.Auth.Register,
		r.middlewares.RateLimit.ByIP(cache.RateLimitAuthRegister))
	authGroup.POST("/login", r.handlers.Auth.Login,
		r.middlewares.RateLimit.ByIP(cache.RateLimitAuthLogin))
	authGroup.POST("/refresh", r.handlers.Auth.Refresh)

	// Auth routes (authenticated)
	authGroup.POST("/logout", r.handlers.Auth.Logout, r.middlewares.JWTAuth.Authenticate())
}

// setupUserRoutes はユーザー関連ルートを設定します
func (r *Router) setupUserRoutes(api *echo.Group) {
	api.GET("/me", r.handlers.Auth.Me, r.middlewares.JWTAuth.Authenticate())
}

// setupHistoryRoutes は操作履歴ルートを設定します
// /me 以外は管理者のみアクセスできます
func (r *Router) setupHistoryRoutes(api *echo.Group) {
	h := r.handlers.History
	adminOnly := middleware.RequireRole(valueobject.RoleAdmin)
	exportLimit := r.middlewares.RateLimit.ByUser(cache.RateLimitHistoryExport)

	historyGroup := api.Group("/history", r.middlewares.JWTAuth.Authenticate())

	historyGroup.GET("/me", h.Mine, middleware.RequireRole(valueobject.RoleUser, valueobject.RoleAdmin))

	historyGroup.GET("", h.List, adminOnly)
	historyGroup.POST("/search", h.Search, adminOnly)
	historyGroup.GET("/export", h.Export, adminOnly, exportLimit)
	historyGroup.POST("/export", h.ExportFiltered, adminOnly, exportLimit)
	historyGroup.GET("/filters", h.FilterOptions, adminOnly)
	historyGroup.DELETE("/:id", h.Delete, adminOnly)
	historyGroup.DELETE("", h.DeleteAll, adminOnly)
}

// setupPDFRoutes はPDF操作ルートを設定します
func (r *Router) setupPDFRoutes(api *echo.Group) {
	h := r.handlers.PDF

	pdfGroup := api.Group("/pdf",
		r.middlewares.JWTAuth.Authenticate(),
		middleware.RequireRole(valueobject.RoleUser, valueobject.RoleAdmin),
		r.middlewares.RateLimit.ByUser(cache.RateLimitPDFProcess),
	)
	pdfGroup.POST("/merge", h.Merge)
	pdfGroup.POST("/extract", h.Extract)
	pdfGroup.POST("/split", h.Split)
	pdfGroup.POST("/remove-page", h.RemovePage)
	pdfGroup.POST("/reorder", h.Reorder)
	pdfGroup.POST("/add-password", h.AddPassword)
	pdfGroup.POST("/remove-password", h.RemovePassword)
	pdfGroup.POST("/to-images", h.ToImages)
	pdfGroup.POST("/rotate", h.Rotate)
	pdfGroup.POST("/add-watermark", h.AddWatermark)
}

package router // package router maps routes to handlers and mounts the middleware pipeline

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avelios/catalog-api/internal/config"
	"github.com/avelios/catalog-api/internal/handler"
	"github.com/avelios/catalog-api/internal/middleware"
	"github.com/avelios/catalog-api/internal/model"
)

// Register wires every route.  The authentication gate runs on all of
// them: it passes anonymous requests through untouched, so mounting it
// globally keeps the public routes public while giving every protected
// route a verified identity.  Role requirements are then declared
// per-route, which makes the policy readable in one place:
//
//	public:   /healthz, /api/v1/auth/*, catalog reads
//	USER+:    catalog create and update
//	ADMIN:    catalog delete
func Register(e *echo.Echo, a *handler.AuthHandler, p *handler.ProductHandler,
	gate echo.MiddlewareFunc, rdb *redis.Client) {

	e.Use(gate)

	e.GET("/healthz", handler.Health)

	// Auth endpoints are public by definition and rate limited to damp
	// credential stuffing.
	auth := e.Group("/api/v1/auth")
	auth.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	auth.POST("/signup", a.Signup)
	auth.POST("/login", a.Login)
	auth.POST("/refresh-token", a.Refresh)

	// Catalog reads are public and cached; mutations require a role.
	products := e.Group("/api/v1/products")
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	products.GET("", p.List, cache)
	products.GET("/:id", p.Get, cache)
	products.GET("/:id/items", p.Items, cache)
	products.POST("", p.Create, middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	products.PUT("/:id", p.Update, middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	products.DELETE("/:id", p.Delete, middleware.RequireRole(model.RoleAdmin))

	// Identity probe for authenticated clients.
	e.GET("/api/v1/me", a.Me, middleware.RequireRole(model.RoleUser, model.RoleAdmin))
}

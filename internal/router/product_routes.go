package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/middleware"
)

// RegisterProducts registers /api/products.  Reads are public and served
// through the Redis response cache; writes need an admin session and drop
// the cache once they succeed.
func RegisterProducts(e *echo.Echo, h *handler.ProductHandler, d Deps) {
	g := e.Group("/api/products")

	cached := middleware.NewRedisCache(d.Cache, d.Redis)
	g.GET("", h.List, cached)
	g.GET("/category/:category", h.ByCategory, cached)
	g.GET("/:id", h.Get, cached)

	admin := []echo.MiddlewareFunc{
		session(d),
		middleware.RequireAdmin(),
		middleware.InvalidateOnWrite(d.Redis, d.Cache.Prefix),
	}
	g.POST("", h.Create, admin...)
	g.PUT("/:id", h.Update, admin...)
	g.DELETE("/:id", h.Delete, admin...)
}

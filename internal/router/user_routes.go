package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/middleware"
)

// RegisterUsers registers /api/users.  The credential endpoints sit behind
// the token bucket; profile needs a session.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, d Deps) {
	g := e.Group("/api/users", middleware.NewTokenBucket(d.RateLimit, d.Redis))
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/profile", h.Profile, session(d))
}

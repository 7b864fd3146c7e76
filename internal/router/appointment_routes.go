package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/middleware"
)

// RegisterAppointments registers /api/appointments.  Every route needs a
// session; the full listing is admin only.  Session is mounted per route
// so unknown paths under the group still answer 404.
func RegisterAppointments(e *echo.Echo, h *handler.AppointmentHandler, d Deps) {
	g := e.Group("/api/appointments")
	auth := session(d)
	g.POST("", h.Create, auth)
	g.GET("/myappointments", h.Mine, auth)
	g.GET("", h.All, auth, middleware.RequireAdmin())
}

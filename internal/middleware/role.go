package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/metrics"
)

// MsgNotAdmin is the single rejection message of RequireAdmin.
const MsgNotAdmin = "Not authorized as an admin"

// RequireAdmin lets the request through only when Session attached a user
// whose isAdmin flag is set.  A missing user is treated as non-admin, so a
// route that forgot Session fails closed with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok || !u.IsAdmin {
				metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonNotAdmin).Inc()
				return apperr.Forbidden(MsgNotAdmin)
			}
			return next(c)
		}
	}
}

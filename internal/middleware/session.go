package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/metrics"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/utils"
)

// Messages returned by Session.
const (
	MsgNoToken      = "Not authorized, no token"
	MsgTokenFailed  = "Not authorized, token failed"
	MsgUserNotFound = "Not authorized, user not found"
)

// Session reads the `jwt` cookie, verifies it with secret and resolves the
// embedded user id against users.  The resolved user (without password
// hash) is attached for CurrentUser.  The middleware never writes to the
// store.
func Session(secret string, users repository.UserStore, timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(utils.SessionCookieName)
			if err != nil || ck.Value == "" {
				metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonNoToken).Inc()
				return apperr.Unauthenticated(MsgNoToken)
			}

			id, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil {
				if errors.Is(err, utils.ErrMissingSigningKey) {
					return apperr.Internal(err)
				}
				zap.L().Debug("session token rejected", zap.Error(err))
				metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonTokenFailed).Inc()
				return apperr.Unauthenticated(MsgTokenFailed)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			u, err := users.FindByID(ctx, id)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonUserNotFound).Inc()
				return apperr.Unauthenticated(MsgUserNotFound)
			case err != nil:
				return apperr.Internal(err)
			}
			u.PasswordHash = ""

			setCurrentUser(c, u)
			return next(c)
		}
	}
}

package handler // handler defines http handlers

import (
	"context" // context bounds every store call
	"errors"
	"time"

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/middleware"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

// defaultStoreTimeout applies when the configured timeout is not positive.
const defaultStoreTimeout = 5 * time.Second

// storeCtx derives the per-request store deadline.
func storeCtx(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// sessionUser returns the user attached by the session middleware.  A
// route wired without it fails as unauthenticated rather than panicking.
func sessionUser(c echo.Context) (*model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperr.Unauthenticated(middleware.MsgNoToken)
	}
	return u, nil
}

// storeError maps repository sentinels; anything else is internal.
func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal(err)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/repository"
)

// errorBody is the single error shape of the API.  Stack is null in
// production.
type errorBody struct {
	Message string  `json:"message"`
	Stack   *string `json:"stack"`
}

// NewHTTPErrorHandler maps every error returned along the handler chain to
// a status and errorBody.  showStack is false in production.  5xx errors
// are reported to Sentry through the request hub when one is attached.
func NewHTTPErrorHandler(showStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := classify(err)
		if !showStack {
			body.Stack = nil
		}

		if status >= http.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			zap.L().Warn("write error response", zap.Error(err))
		}
	}
}

func classify(err error) (int, errorBody) {
	if ae, ok := apperr.As(err); ok {
		return ae.Kind.Status(), errorBody{Message: ae.Message, Stack: strPtr(ae.Stack())}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, errorBody{Message: msg, Stack: stackOf(err)}
	}

	// bare repository sentinels that escaped a handler
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, errorBody{Message: err.Error(), Stack: stackOf(err)}
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, errorBody{Message: err.Error(), Stack: stackOf(err)}
	}
	return http.StatusInternalServerError, errorBody{Message: err.Error(), Stack: stackOf(err)}
}

func stackOf(err error) *string {
	return strPtr(fmt.Sprintf("%+v", pkgerrors.WithStack(err)))
}

func strPtr(s string) *string { return &s }

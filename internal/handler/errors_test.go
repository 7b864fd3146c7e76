package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/repository"
)

func runErrorHandler(t *testing.T, showStack bool, err error) (int, errBody) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	handler.NewHTTPErrorHandler(showStack)(err, c)
	return rec.Code, decode[errBody](t, rec)
}

func TestHTTPErrorHandler_Kinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apperr.Validation("bad"), http.StatusBadRequest, "bad"},
		{"unauthenticated", apperr.Unauthenticated("who"), http.StatusUnauthorized, "who"},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden, "no"},
		{"not found", apperr.NotFound("gone"), http.StatusNotFound, "gone"},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict, "dup"},
		{"internal keeps store message", apperr.Internal(errors.New("connection refused")), http.StatusInternalServerError, "connection refused"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"bare not found sentinel", repository.ErrNotFound, http.StatusNotFound, repository.ErrNotFound.Error()},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := runErrorHandler(t, true, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body.Message)
			require.NotNil(t, body.Stack)
			assert.NotEmpty(t, *body.Stack)
		})
	}
}

func TestHTTPErrorHandler_ProductionHidesStack(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	handler.NewHTTPErrorHandler(false)(apperr.NotFound("gone"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"gone","stack":null}`, rec.Body.String())
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errBody](t, rec)
	assert.Equal(t, "Not Found", body.Message)
	assert.NotNil(t, body.Stack)
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.RootMessage, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

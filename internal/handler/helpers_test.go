package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/queue"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/repository/memstore"
	"github.com/iliyamo/autopro/internal/router"
	"github.com/iliyamo/autopro/internal/utils"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	events chan queue.AppointmentBookedEvent
}

func (p *recordingPublisher) PublishAppointmentBooked(_ context.Context, ev queue.AppointmentBookedEvent) error {
	p.events <- ev
	return nil
}

type testServer struct {
	e      *echo.Echo
	stores repository.Stores
	pub    *recordingPublisher
}

func testConfig(env string) config.Config {
	return config.Config{
		Env:          env,
		DBDriver:     config.DriverMemory,
		JWTSecret:    testSecret,
		BcryptCost:   bcrypt.MinCost,
		StoreTimeout: time.Second,
	}
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerEnv(t, "test")
}

func newTestServerEnv(t *testing.T, env string) *testServer {
	t.Helper()
	stores := memstore.New()
	pub := &recordingPublisher{events: make(chan queue.AppointmentBookedEvent, 16)}
	e := router.New(router.Deps{
		Cfg:       testConfig(env),
		Stores:    stores,
		Publisher: pub,
	})
	return &testServer{e: e, stores: stores, pub: pub}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// createUser stores a user directly and returns it with a session cookie.
func (s *testServer) createUser(t *testing.T, email string, admin bool) (*model.User, *http.Cookie) {
	t.Helper()
	hash, err := utils.HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Name: "User " + email, Email: email, Phone: "555-0100", PasswordHash: hash, IsAdmin: admin}
	require.NoError(t, s.stores.Users.Create(context.Background(), u))
	return u, sessionCookieFor(t, u.ID)
}

func sessionCookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, userID, utils.SessionTTL)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookieName, Value: tok.Token}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == utils.SessionCookieName {
			return c
		}
	}
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errBody struct {
	Message string  `json:"message"`
	Stack   *string `json:"stack"`
}

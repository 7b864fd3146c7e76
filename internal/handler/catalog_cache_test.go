package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/queue"
	"github.com/iliyamo/autopro/internal/repository/memstore"
	"github.com/iliyamo/autopro/internal/router"
)

// newCachedTestServer wires the router to a throwaway Redis with the
// catalog cache switched on.
func newCachedTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := memstore.New()
	pub := &recordingPublisher{events: make(chan queue.AppointmentBookedEvent, 16)}
	e := router.New(router.Deps{
		Cfg:    testConfig("test"),
		Stores: stores,
		Redis:  rdb,
		Cache: config.CacheConfig{
			Enabled:      true,
			Methods:      map[string]bool{http.MethodGet: true},
			TTL:          time.Minute,
			KeyStrategy:  "route_query",
			Prefix:       "test:catalog",
			MaxBodyBytes: 1 << 20,
		},
		Publisher: pub,
	})
	return &testServer{e: e, stores: stores, pub: pub}
}

func TestCatalogCache_AdminWritesInvalidate(t *testing.T) {
	s := newCachedTestServer(t)
	_, admin := s.createUser(t, "admin@example.com", true)
	p := s.addProduct(t, "Exide Battery", model.CategorySparePart)

	list := func() (string, []model.Product) {
		rec := s.do(t, http.MethodGet, "/api/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Header().Get("X-Cache"), decode[[]model.Product](t, rec)
	}

	state, items := list()
	assert.Equal(t, "MISS", state)
	assert.Len(t, items, 1)
	state, _ = list()
	assert.Equal(t, "HIT", state)

	t.Run("create", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", nil, admin).Code)
		state, items := list()
		assert.Equal(t, "MISS", state)
		assert.Len(t, items, 2)
	})

	t.Run("update", func(t *testing.T) {
		byID := func() *httptest.ResponseRecorder { return s.do(t, http.MethodGet, "/api/products/"+p.ID, nil) }
		byID()
		require.Equal(t, "HIT", byID().Header().Get("X-Cache"))

		rec := s.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{"name": "Amaron Battery"}, admin)
		require.Equal(t, http.StatusOK, rec.Code)

		after := byID()
		assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
		assert.Equal(t, "Amaron Battery", decode[model.Product](t, after).Name)
	})

	t.Run("delete", func(t *testing.T) {
		list()
		require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/products/"+p.ID, nil, admin).Code)
		state, items := list()
		assert.Equal(t, "MISS", state)
		assert.Len(t, items, 1)
	})

	t.Run("rejected write keeps the cache", func(t *testing.T) {
		list()
		rec := s.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{"name": "x"}, admin)
		require.Equal(t, http.StatusNotFound, rec.Code)
		state, _ := list()
		assert.Equal(t, "HIT", state)
	})
}

func TestCatalogCache_CrossOriginHit(t *testing.T) {
	s := newCachedTestServer(t)
	s.addProduct(t, "LED Headlight", model.CategoryAccessory)

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, "MISS", get("https://a.example").Header().Get("X-Cache"))
	rec := get("https://b.example")
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, []string{"https://b.example"}, rec.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, []string{echo.HeaderOrigin}, rec.Header().Values(echo.HeaderVary))
	assert.Len(t, rec.Header().Values(echo.HeaderXRequestID), 1)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/autopro/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:catalog",
		MaxBodyBytes: 1 << 20,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`[{"name":"Battery"}]`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok, "header length beyond buffer")
}

func TestCacheKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "autopro:catalog", KeyStrategy: "route_query"}
	e := echo.New()
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/products/:id")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/api/products/1")
	assert.True(t, strings.HasPrefix(a, "autopro:catalog:"))
	assert.Equal(t, a, key("/api/products/1"))
	assert.NotEqual(t, a, key("/api/products/2"), "concrete path must be part of the key")
	assert.NotEqual(t, key("/api/products?keyword=a"), key("/api/products?keyword=b"))
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("defg"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdefg", rec.Body.String())
	assert.True(t, cw.truncated())
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	called := false
	require.NoError(t, mw(func(echo.Context) error { called = true; return nil })(c))
	assert.True(t, called)
}

func TestRedisCache_HitKeepsPerRequestHeaders(t *testing.T) {
	_, rdb := newRedis(t)

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  func(string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))
	calls := 0
	e.GET("/items", func(c echo.Context) error {
		calls++
		c.Response().Header().Set("X-Catalog-Version", "7")
		return c.JSON(http.StatusOK, []string{"battery", "tyre"})
	}, NewRedisCache(testCacheConfig(), rdb))

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := get("https://a.example")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get("https://b.example")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())

	h := second.Header()
	assert.Equal(t, []string{"https://b.example"}, h.Values(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, []string{"true"}, h.Values(echo.HeaderAccessControlAllowCredentials))
	assert.Equal(t, []string{echo.HeaderOrigin}, h.Values(echo.HeaderVary))
	require.Len(t, h.Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), h.Get(echo.HeaderXRequestID))
	assert.Equal(t, []string{"7"}, h.Values("X-Catalog-Version"))
	assert.Equal(t, []string{echo.MIMEApplicationJSON}, h.Values(echo.HeaderContentType))
}

func TestRedisCache_SkipsErrorsAndOtherMethods(t *testing.T) {
	mr, rdb := newRedis(t)

	e := echo.New()
	mw := NewRedisCache(testCacheConfig(), rdb)
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}, mw)
	e.POST("/items", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, mw)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, mr.Keys())
}

func TestInvalidateCacheDropsOnlyPrefix(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("test:catalog:a", "1"))
	require.NoError(t, mr.Set("test:catalog:b", "2"))
	require.NoError(t, mr.Set("test:rl:ip:1", "3"))

	require.NoError(t, InvalidateCache(context.Background(), rdb, "test:catalog"))
	assert.Equal(t, []string{"test:rl:ip:1"}, mr.Keys())

	assert.NoError(t, InvalidateCache(context.Background(), nil, "test:catalog"))
}

func TestReplayable(t *testing.T) {
	for _, k := range []string{"access-control-allow-origin", "Vary", "X-Request-Id", "Set-Cookie", "Content-Length", "X-Cache"} {
		assert.False(t, replayable(k), k)
	}
	for _, k := range []string{"Content-Type", "X-Catalog-Version"} {
		assert.True(t, replayable(k), k)
	}
}

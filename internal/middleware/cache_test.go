package middleware

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

	"github.com/avelios/catalog-api/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestResponseCache_HitSkipsHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	e := echo.New()
	e.GET("/api/v1/products", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"items": []string{"a", "b"}})
	}, ResponseCache(testCacheConfig(), rdb))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls, "hit must be served without re-running the handler")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestResponseCache_QueryIsPartOfKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	e.GET("/api/v1/products", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"page": c.QueryParam("page")})
	}, ResponseCache(testCacheConfig(), rdb))

	p0 := httptest.NewRecorder()
	e.ServeHTTP(p0, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=0", nil))
	p1 := httptest.NewRecorder()
	e.ServeHTTP(p1, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1", nil))

	assert.Equal(t, "MISS", p1.Header().Get("X-Cache"), "different query must not share an entry")
	assert.NotEqual(t, p0.Body.String(), p1.Body.String())
}

func TestResponseCache_ErrorsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	e := echo.New()
	e.GET("/api/v1/products/:id", func(c echo.Context) error {
		calls++
		return ErrorJSON(c, http.StatusNotFound, "product not found")
	}, ResponseCache(testCacheConfig(), rdb))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/9", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, 2, calls, "non-200 responses must not be served from cache")
}

func TestResponseCache_DisabledIsNoop(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false

	calls := 0
	e := echo.New()
	e.GET("/api/v1/products", func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}, ResponseCache(cfg, nil))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

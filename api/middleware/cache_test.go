package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/fraza-api/internal/services/cache"
)

func setupRouter(mc cache.Cache, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/scripts/:id", Cache(CacheConfig{Cache: mc, TTL: time.Minute}), func(c *gin.Context) {
		*calls++
		if c.Param("id") == "404" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Script not found"})
			return
		}
		if c.Param("id") == "draft" {
			c.Header("Cache-Control", "no-store")
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": c.Param("id")})
	})
	return router
}

func get(router *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCache_HitAndMiss(t *testing.T) {
	calls := 0
	router := setupRouter(cache.NewMemoryCache(1), &calls)

	first := get(router, "/scripts/7")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(router, "/scripts/7")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, second.Header().Get("ETag"))
	assert.Equal(t, 1, calls)

	// A different script is a different key
	get(router, "/scripts/8")
	assert.Equal(t, 2, calls)
}

func TestCache_NotModified(t *testing.T) {
	calls := 0
	router := setupRouter(cache.NewMemoryCache(1), &calls)

	get(router, "/scripts/7")
	hit := get(router, "/scripts/7")
	etag := hit.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w := get(router, "/scripts/7", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, 1, calls)
}

func TestCache_ErrorsAreNotStored(t *testing.T) {
	calls := 0
	router := setupRouter(cache.NewMemoryCache(1), &calls)

	get(router, "/scripts/404")
	w := get(router, "/scripts/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestCache_Bypass(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
	}{
		{"no-cache", []string{"Cache-Control", "no-cache"}},
		{"no-store", []string{"Cache-Control", "private, no-store"}},
		{"max-age zero", []string{"Cache-Control", "max-age=0"}},
		{"pragma", []string{"Pragma", "no-cache"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			router := setupRouter(cache.NewMemoryCache(1), &calls)

			get(router, "/scripts/7")
			w := get(router, "/scripts/7", tt.headers...)
			assert.Equal(t, "BYPASS", w.Header().Get("X-Cache"))
			assert.Equal(t, 2, calls)
		})
	}
}

func TestCache_NilCachePassesThrough(t *testing.T) {
	calls := 0
	router := setupRouter(nil, &calls)

	get(router, "/scripts/7")
	w := get(router, "/scripts/7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestCacheKey(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/scripts/list?userId=u1&b=2", nil)
	b := httptest.NewRequest(http.MethodGet, "/scripts/list?b=2&userId=u1", nil)
	assert.Equal(t, cacheKey(a), cacheKey(b))
	assert.Equal(t, "http:/scripts/list:b=2:userId=u1", cacheKey(a))
}

func TestCache_HandlerNoStore(t *testing.T) {
	calls := 0
	router := setupRouter(cache.NewMemoryCache(1), &calls)

	for i := 0; i < 2; i++ {
		w := get(router, "/scripts/draft")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	calls := 0
	mc := cache.NewMemoryCache(1)
	router := setupRouter(mc, &calls)

	get(router, "/scripts/7")
	assert.Equal(t, "HIT", get(router, "/scripts/7").Header().Get("X-Cache"))

	require.NoError(t, Invalidate(context.Background(), mc, "/scripts/7"))
	assert.Equal(t, "MISS", get(router, "/scripts/7").Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	assert.NoError(t, Invalidate(context.Background(), nil, "/scripts/7"))
}

package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/services/cache"
)

// CacheConfig configures the response cache
type CacheConfig struct {
	Cache  cache.Cache
	TTL    time.Duration
	Logger *zap.Logger
}

// cachedResponse is the stored form of a successful GET response
type cachedResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	ETag        string    `json:"etag"`
	CachedAt    time.Time `json:"cachedAt"`
}

// captureWriter copies the response body while it is written
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from cfg.Cache. Only 200 responses are
// stored, and a handler can opt out by setting "Cache-Control: no-store".
// Hits carry an ETag and answer If-None-Match with 304.
func Cache(cfg CacheConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if cfg.Cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		if shouldBypassCache(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(c.Request)

		if data, ok := cfg.Cache.Get(ctx, key); ok {
			var hit cachedResponse
			if err := json.Unmarshal(data, &hit); err == nil {
				c.Header("X-Cache", "HIT")
				c.Header("ETag", hit.ETag)
				c.Header("Age", fmt.Sprintf("%d", int(time.Since(hit.CachedAt).Seconds())))

				if match := c.GetHeader("If-None-Match"); match != "" && match == hit.ETag {
					c.AbortWithStatus(http.StatusNotModified)
					return
				}
				c.Data(hit.Status, hit.ContentType, hit.Body)
				c.Abort()
				return
			}
			_ = cfg.Cache.Delete(ctx, key)
		}

		c.Header("X-Cache", "MISS")
		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		if w.Status() != http.StatusOK || w.body.Len() == 0 || hasNoStore(w.Header()) {
			return
		}

		body := w.body.Bytes()
		data, err := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: w.Header().Get("Content-Type"),
			Body:        body,
			ETag:        etag(body),
			CachedAt:    time.Now(),
		})
		if err != nil {
			return
		}
		if err := cfg.Cache.Set(ctx, key, data, cfg.TTL); err != nil {
			logger.Warn("failed to cache response", zap.String("key", key), zap.Error(err))
		}
	}
}

// Invalidate drops the cached response for a path without query parameters
func Invalidate(ctx context.Context, c cache.Cache, path string) error {
	if c == nil {
		return nil
	}
	return c.Delete(ctx, "http:"+path)
}

func hasNoStore(header http.Header) bool {
	for _, directive := range strings.Split(strings.ToLower(header.Get("Cache-Control")), ",") {
		if strings.TrimSpace(directive) == "no-store" {
			return true
		}
	}
	return false
}

// shouldBypassCache honours no-cache, no-store and max-age=0 from the client
func shouldBypassCache(req *http.Request) bool {
	if req.Header.Get("Pragma") == "no-cache" {
		return true
	}

	for _, directive := range strings.Split(strings.ToLower(req.Header.Get("Cache-Control")), ",") {
		switch strings.TrimSpace(directive) {
		case "no-cache", "no-store", "max-age=0":
			return true
		}
	}
	return false
}

// cacheKey is the path plus the query parameters in sorted order
func cacheKey(req *http.Request) string {
	parts := []string{req.URL.Path}

	params := req.URL.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, k+"="+v)
		}
	}
	return "http:" + strings.Join(parts, ":")
}

func etag(body []byte) string {
	hash := sha256.Sum256(body)
	return `"` + hex.EncodeToString(hash[:16]) + `"`
}

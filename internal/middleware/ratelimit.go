package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scoutdb/codescout/internal/pkg/errcode"
	"github.com/scoutdb/codescout/internal/pkg/logutil"
	"github.com/scoutdb/codescout/internal/pkg/response"
)

// sweepEvery bounds how often stale window entries are purged.
const sweepEvery = 512

// RateLimit allows one request per (ip, user, path) within the window.
// Embedding endpoints call paid upstream APIs, so they get a window; the
// rest of the API passes a zero window through untouched.
func RateLimit(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	var (
		mu    sync.Mutex
		last  = make(map[string]time.Time)
		ticks int
	)
	return func(c *gin.Context) {
		key := clientKey(c)
		now := time.Now()

		mu.Lock()
		if at, seen := last[key]; seen && now.Sub(at) < window {
			mu.Unlock()
			logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
				zap.String("key", key), zap.Duration("window", window))
			response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
			c.Abort()
			return
		}
		last[key] = now
		ticks++
		if ticks%sweepEvery == 0 {
			for k, at := range last {
				if now.Sub(at) >= window {
					delete(last, k)
				}
			}
		}
		mu.Unlock()
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	uid := "anon"
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			uid = id
		}
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return strings.Join([]string{c.ClientIP(), uid, path}, "|")
}

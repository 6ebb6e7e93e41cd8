package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func limitedContext(userID string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/ingest", nil)
	if userID != "" {
		c.Set(ContextUserIDKey, userID)
	}
	return c
}

func TestRateLimitBlocksWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limit := RateLimit(10 * time.Second)

	c1 := limitedContext("")
	limit(c1)
	require.False(t, c1.IsAborted())

	c2 := limitedContext("")
	limit(c2)
	require.True(t, c2.IsAborted())
}

func TestRateLimitSeparatesUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limit := RateLimit(10 * time.Second)

	c1 := limitedContext("u1")
	limit(c1)
	require.False(t, c1.IsAborted())

	c2 := limitedContext("u2")
	limit(c2)
	require.False(t, c2.IsAborted())
}

func TestRateLimitZeroWindowPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limit := RateLimit(0)
	for i := 0; i < 3; i++ {
		c := limitedContext("")
		limit(c)
		require.False(t, c.IsAborted())
	}
}

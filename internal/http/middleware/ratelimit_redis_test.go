package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectRedis skips unless REDIS_ADDR is set.
func connectRedis(t *testing.T) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	InitRedisRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), db)
	require.NotNil(t, redisClient, "redis ping failed")
	t.Cleanup(CloseRedis)
	require.NoError(t, PingRedis(context.Background()))
}

func TestPingRedisWithoutClient(t *testing.T) {
	require.Nil(t, redisClient)
	assert.NoError(t, PingRedis(context.Background()))
}

func TestRedisRateLimitIntegration(t *testing.T) {
	connectRedis(t)

	// odd window so keys from earlier runs do not collide
	window, max := 3*time.Second, 2

	r := gin.New()
	r.GET("/test", RedisRateLimit(max, window), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	get := func() int {
		res, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}
	for i := 0; i < max; i++ {
		assert.Equal(t, http.StatusOK, get())
	}
	assert.Equal(t, http.StatusTooManyRequests, get())
}

func TestUserRateLimitRedisIntegration(t *testing.T) {
	connectRedis(t)

	// a unique action keeps the keys of this run apart
	action := "complete-" + uuid.NewString()
	r := gin.New()
	r.POST("/complete", func(c *gin.Context) { c.Set("user_id", int64(77)) },
		UserRateLimit(action, 1, 5*time.Second),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/complete", nil).Code)
	w := do(r, http.MethodPost, "/complete", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

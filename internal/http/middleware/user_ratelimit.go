package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UserRateLimit limits one action per user rather than per IP. It must run
// after JWT. Counters live in Redis when configured and in process otherwise.
func UserRateLimit(action string, max int, window time.Duration) gin.HandlerFunc {
	local := newMemoryWindow(window)
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID, ok := userIDVal.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		key := "user_rl:" + action + ":" + strconv.FormatInt(userID, 10) + ":" + windowSecs
		var count int64
		if redisClient != nil {
			val, err := incr(c.Request.Context(), key, window)
			if err != nil {
				c.Header("X-UserRateLimit-Error", "redis-error")
				c.Next()
				return
			}
			count = val
		} else {
			count = local.hit(key, time.Now())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max64(0, int64(max)-count), 10))

		label := action + ":" + c.FullPath()
		if count > int64(max) {
			RLBlocked.WithLabelValues(label).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       action + " rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(label).Inc()
		c.Next()
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	start time.Time
	count int64
}

// memoryWindow is a fixed-window counter held in process memory. It backs
// the limiters when Redis is not configured, so limits apply per instance.
type memoryWindow struct {
	window time.Duration

	mu      sync.Mutex
	entries map[string]*windowEntry
	swept   time.Time
}

func newMemoryWindow(window time.Duration) *memoryWindow {
	return &memoryWindow{window: window, entries: make(map[string]*windowEntry), swept: time.Now()}
}

// hit counts one request for key and returns the count in its current window.
func (m *memoryWindow) hit(key string, now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.swept) > m.window {
		for k, e := range m.entries {
			if now.Sub(e.start) > m.window {
				delete(m.entries, k)
			}
		}
		m.swept = now
	}

	e, ok := m.entries[key]
	if !ok || now.Sub(e.start) > m.window {
		e = &windowEntry{start: now}
		m.entries[key] = e
	}
	e.count++
	return e.count
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newMemoryWindow(window)
	return func(c *gin.Context) {
		if counter.hit(c.ClientIP(), time.Now()) > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

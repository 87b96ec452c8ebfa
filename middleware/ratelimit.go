package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed-window per-IP limiter for the export feed. The bot webhook is not
// limited here; Telegram already throttles update delivery.
const (
	rateLimit  = 30
	rateWindow = time.Minute
)

type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*ipWindow
}

type ipWindow struct {
	count   int
	resetAt time.Time
}

var limiter = &ipLimiter{clients: make(map[string]*ipWindow)}

func init() {
	go func() {
		ticker := time.NewTicker(rateWindow)
		defer ticker.Stop()
		for range ticker.C {
			limiter.cleanup()
		}
	}()
}

func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		limiter.mu.Lock()
		w, exists := limiter.clients[ip]
		if !exists || now.After(w.resetAt) {
			limiter.clients[ip] = &ipWindow{count: 1, resetAt: now.Add(rateWindow)}
			limiter.mu.Unlock()
			c.Next()
			return
		}
		if w.count >= rateLimit {
			retryAfter := w.resetAt.Sub(now).Seconds()
			limiter.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}
		w.count++
		limiter.mu.Unlock()

		c.Next()
	}
}

func (l *ipLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for ip, w := range l.clients {
		if now.After(w.resetAt) {
			delete(l.clients, ip)
		}
	}
}

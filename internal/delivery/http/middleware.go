package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wbfinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// LoggerMiddleware logs requests (simple version for now)
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

// userLimiters hands out one token bucket per user key. Multiple requests
// from the same user race on this map, so access is serialized.
type userLimiters struct {
	mu        sync.Mutex
	perMinute int
	limiters  map[string]*rate.Limiter
}

func (u *userLimiters) get(key string) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()

	limiter, ok := u.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(u.perMinute)), u.perMinute)
		u.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware caps how often a single user may trigger searches.
// Users are identified by the X-User-ID header (set by the bot layer),
// falling back to the client IP.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	limiters := &userLimiters{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}

		if !limiters.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": domain.ErrRateLimited.Error()})
			return
		}

		c.Next()
	}
}

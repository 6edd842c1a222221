package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"moltpedia/models"
)

// RateLimiter keeps one token bucket per bot. It guards every mutating
// route; a rejected request fails before the core touches any state.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute writes per bot with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[uint]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *RateLimiter) limiterFor(botID uint) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[botID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[botID] = limiter
	}
	return limiter
}

// Middleware must run after AuthMiddleware.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bot, ok := CurrentBot(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !l.limiterFor(bot.ID).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": models.ErrorRateLimited{}.Error()})
			return
		}
		c.Next()
	}
}

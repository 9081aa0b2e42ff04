package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/handler"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config  RateLimiterConfig
	buckets *cache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:  config,
		buckets: cache.New(config.IdleTTL, config.IdleTTL),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.buckets.Get(key); ok {
		l := v.(*rate.Limiter)
		rl.buckets.SetDefault(key, l)
		return l
	}
	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	if err := rl.buckets.Add(key, l, cache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same client.
		if v, ok := rl.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}

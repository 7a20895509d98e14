package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/courtlog/handball-tracker/pkg/utils"
)

// RateLimit caps requests per second per client IP. Burst is twice the
// sustained rate so a scorekeeper tapping through a possession never
// trips it.
func RateLimit(requestsPerSecond int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 50
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond*2)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			utils.SendTooManyRequests(c, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

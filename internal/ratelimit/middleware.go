package ratelimit

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classtrack/internal/api"
	"classtrack/internal/auth"
)

var deniedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classtrack_rate_limit_denied_total",
	Help: "Requests rejected by the rate limiter.",
})

// Middleware returns a gin handler enforcing the limiter per caller.
// The identifier is the authenticated user id when present, else the
// client IP. Rate-limit headers are set on every response.
func Middleware(limiter Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := "ip:" + c.ClientIP()
		if claims, ok := auth.ClaimsFrom(c); ok {
			identifier = "user:" + claims.UserID
		}

		res, err := limiter.Check(c.Request.Context(), identifier, limit, window)
		if err != nil {
			// A broken limiter backend must not take the API down.
			log.Printf("rate limit check failed for %s: %v", identifier, err)
			c.Next()
			return
		}

		resetAfter := int(time.Until(res.Reset).Seconds())
		if resetAfter < 0 {
			resetAfter = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))
		c.Header("X-RateLimit-Reset-After", strconv.Itoa(resetAfter))

		if !res.Allowed {
			deniedTotal.Inc()
			api.Abort(c, api.RateLimited(int64(res.RetryAfter.Seconds())))
			return
		}
		c.Next()
	}
}

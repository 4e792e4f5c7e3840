package middleware

import (
	"namegen-api/internal/ctx"
	"namegen-api/internal/metrics"
	"namegen-api/internal/ratelimit"
	"namegen-api/internal/shared"

	"github.com/labstack/echo/v4"
)

// NewRateLimitMiddleware rejects clients over their limit with 429. When the
// limiter itself fails the request is let through.
func NewRateLimitMiddleware(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(cc echo.Context) error {
			c := cc.(*ctx.Context)
			allowed, err := limiter.Allow(c.Request().Context(), shared.ClientKey(c))
			if err != nil {
				c.Log.Warnw("Rate limiter unavailable, allowing request", "error", err)
				c.LogValues.AddError(err)
				return next(c)
			}
			if !allowed {
				metrics.RateLimited.Inc()
				return c.String(shared.ErrRateLimited.StatusCode, shared.ErrRateLimited.Err.Error())
			}
			return next(c)
		}
	}
}

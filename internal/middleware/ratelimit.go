package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/guard"
)

// ClaimRateLimit returns an Echo middleware that enforces the per-IP claim
// attempt window.  Every request passing through consumes an attempt,
// successful or not, so retries after a failed claim still count.  When
// the window check itself errors (e.g. Redis hiccup) the request is let
// through: the throttle is best-effort and the allocator stays the only
// correctness guard.
func ClaimRateLimit(cfg config.RateLimitConfig, w guard.Window) echo.MiddlewareFunc {
	if !cfg.Enabled || w == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			dec, err := w.Allow(c.Request().Context(), ip)
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] window error for ip=%s: %v", ip, err)
				}
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(dec.Remaining, 10))

			if !dec.Allowed {
				secs := int(math.Ceil(dec.RetryAfter.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "Too many coupon claims from this IP, please try again later",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

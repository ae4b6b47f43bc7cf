package middleware

// marker.go implements the session marker gate.  After a successful claim
// the handler sets a short-lived "claimed" cookie; while that cookie is
// present the same client is turned away before reaching the allocator.
// The marker is an unsigned presence-only flag — a UX throttle, not a
// security boundary.  The real one-claim guarantee lives in the
// allocator's transaction and the claims ledger.

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MarkerCookieName is the name of the post-claim session marker cookie.
const MarkerCookieName = "claimed"

// ClaimMarkerGate rejects requests that carry the session marker cookie
// with 401 before any rate-window token is consumed.
func ClaimMarkerGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(MarkerCookieName); err == nil && cookie.Value != "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "You have already claimed a coupon in this session",
				})
			}
			return next(c)
		}
	}
}

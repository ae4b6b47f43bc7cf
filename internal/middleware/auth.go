package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pavannitheesh/Coupon-backend/internal/utils"
)

// AdminAuth returns an Echo middleware that validates the admin credential
// cookie and injects the admin's id and username into the request context.
// The credential is the signed JWT issued at login and carried in the
// "token" cookie; it is never accepted from any other location.  Handlers
// behind this middleware can read the identity via c.Get("admin_id") and
// c.Get("admin_username").
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie("token")
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}
			identity, err := utils.ParseAdminToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}
			c.Set("admin_id", identity.ID)
			c.Set("admin_username", identity.Username)
			return next(c)
		}
	}
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/guard"
	"github.com/pavannitheesh/Coupon-backend/internal/handler"
	"github.com/pavannitheesh/Coupon-backend/internal/middleware"
)

// RegisterRoutes registers routes that require no gating on the provided
// Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterClaim registers the public claim endpoint behind the identity
// guard chain.  The session marker gate runs first so a recent claimant
// is turned away without consuming a rate-window token; the rate window
// then throttles everything that would reach the allocator.
func RegisterClaim(e *echo.Echo, h *handler.ClaimHandler, rlCfg config.RateLimitConfig, w guard.Window) {
	e.POST("/claim-coupon", h.ClaimCoupon,
		middleware.ClaimMarkerGate(),
		middleware.ClaimRateLimit(rlCfg, w),
	)
}

// RegisterAdmin registers operator endpoints.  Login and logout are open;
// every inventory operation sits behind the AdminAuth middleware so
// unauthenticated calls never reach the inventory manager.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/admin")
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	protected := e.Group("/admin")
	protected.Use(middleware.AdminAuth(jwtSecret))
	protected.GET("/coupons", a.GetCoupons)
	protected.POST("/add-coupon", a.AddCoupon)
	protected.PUT("/coupons/:id", a.UpdateCoupon)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pavannitheesh/Coupon-backend/internal/allocator"
	"github.com/pavannitheesh/Coupon-backend/internal/middleware"
	"github.com/pavannitheesh/Coupon-backend/internal/queue"
	queue_publisher "github.com/pavannitheesh/Coupon-backend/internal/service"
)

// CouponClaimer is the slice of the allocator the claim handler depends
// on.  *allocator.Allocator satisfies it.
type CouponClaimer interface {
	Claim(ctx context.Context, ip string) (allocator.Result, error)
}

// ClaimHandler serves the public claim endpoint.  The identity guard
// middlewares (session marker, rate window) run before it; the handler
// itself only drives the allocator and assembles the response.
type ClaimHandler struct {
	Alloc     CouponClaimer
	MarkerTTL time.Duration // lifetime of the "claimed" cookie set on success
	Publish   bool          // emit coupon.claimed events when true
}

// NewClaimHandler constructs a ClaimHandler.  The allocator must be non-nil.
func NewClaimHandler(alloc CouponClaimer, markerTTL time.Duration) *ClaimHandler {
	if alloc == nil {
		panic("nil allocator passed to NewClaimHandler")
	}
	return &ClaimHandler{Alloc: alloc, MarkerTTL: markerTTL, Publish: true}
}

// ClaimCoupon handles POST /claim-coupon.  On success it returns the
// coupon's public fields and sets the short-lived session marker cookie;
// the marker is set only on success so failed attempts do not lock the
// client out.  Exhaustion maps to 404, anything else to an opaque 500.
func (h *ClaimHandler) ClaimCoupon(c echo.Context) error {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Alloc.Claim(ctx, ip)
	if err != nil {
		if errors.Is(err, allocator.ErrExhausted) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No coupons available at this time"})
		}
		c.Logger().Errorf("claim failed for ip=%s: %v", ip, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.MarkerCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   int(h.MarkerTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	if h.Publish {
		ev := queue.CouponClaimedEvent{
			CouponID:       res.CouponID,
			Code:           res.Coupon.Code,
			DiscountAmount: res.Coupon.DiscountAmount,
			IPAddress:      ip,
			ClaimedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		// Best-effort audit event; the claim is already committed.
		go func() { _ = queue_publisher.PublishCouponClaimed(context.Background(), ev) }()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Coupon claimed successfully",
		"coupon":  res.Coupon,
	})
}

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/model"
	"github.com/pavannitheesh/Coupon-backend/internal/repository"
	"github.com/pavannitheesh/Coupon-backend/internal/utils"
)

// AdminStore is the slice of the admin repository the handler needs.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
}

// CouponCatalog is the slice of the coupon repository the handler needs.
// *repository.CouponRepo satisfies it.
type CouponCatalog interface {
	Create(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error)
	Update(ctx context.Context, id uint64, u repository.CouponUpdate) error
	ListAvailable(ctx context.Context) ([]model.Coupon, error)
	ListClaimed(ctx context.Context) ([]repository.ClaimedCouponRow, error)
}

// AdminHandler bundles dependencies for operator endpoints: login/logout
// and the inventory operations behind the AdminAuth middleware.
type AdminHandler struct {
	Cfg     config.Config
	Admins  AdminStore
	Coupons CouponCatalog
}

func NewAdminHandler(cfg config.Config, admins AdminStore, coupons CouponCatalog) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Admins: admins, Coupons: coupons}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type addCouponReq struct {
	Code           string   `json:"code"`
	DiscountAmount *float64 `json:"discount_amount"`
	Description    *string  `json:"description"`
	IsActive       *bool    `json:"isActive"`
}

type updateCouponReq struct {
	Code           *string  `json:"code"`
	DiscountAmount *float64 `json:"discount_amount"`
	Description    *string  `json:"description"`
	IsActive       *bool    `json:"isActive"`
}

// fieldError describes one failing input field.  Validation responses
// enumerate every failing field at once, not just the first.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Login verifies an operator's credentials and delivers a signed,
// time-bounded token as an HTTP-only cookie.  The same generic 401 is
// returned whether the username is unknown or the secret is wrong.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if errs := validateLogin(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	if !utils.VerifyPassword(admin.SecretHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, err := utils.NewAdminToken(h.Cfg.JWTSecret, admin.ID, admin.Username, h.Cfg.TokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	// Cookie lifetime matches the token's validity window.
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token.Token,
		Path:     "/",
		MaxAge:   int(h.Cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"admin":   echo.Map{"id": admin.ID, "username": admin.Username},
	})
}

// Logout instructs the caller to discard the credential cookie.  The token
// itself stays valid until expiry; the gate holds no server-side session
// state.
func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// GetCoupons handles GET /admin/coupons and returns the inventory split
// into available and claimed coupons, the latter joined with the claiming
// IP and timestamp.
func (h *AdminHandler) GetCoupons(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	available, err := h.Coupons.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	claimed, err := h.Coupons.ListClaimed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available_coupons": available,
		"claimed_coupons":   claimed,
	})
}

// AddCoupon handles POST /admin/add-coupon.
func (h *AdminHandler) AddCoupon(c echo.Context) error {
	var req addCouponReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.TrimSpace(req.Code)
	if errs := validateAddCoupon(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Coupons.Create(ctx, req.Code, *req.DiscountAmount, description, *req.IsActive); err != nil {
		if err == repository.ErrCodeExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon code already exists. Please use a unique code."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Coupon created successfully"})
}

// UpdateCoupon handles PUT /admin/coupons/:id.  Only supplied fields are
// modified; absence of a field is not the same as clearing it.
func (h *AdminHandler) UpdateCoupon(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coupon id"})
	}
	var req updateCouponReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Code != nil {
		trimmed := strings.TrimSpace(*req.Code)
		req.Code = &trimmed
	}
	if errs := validateUpdateCoupon(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	update := repository.CouponUpdate{
		Code:           req.Code,
		DiscountAmount: req.DiscountAmount,
		Description:    req.Description,
		IsActive:       req.IsActive,
	}
	if err := h.Coupons.Update(ctx, id, update); err != nil {
		switch err {
		case repository.ErrNoFields:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields to update"})
		case repository.ErrCouponNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coupon not found"})
		case repository.ErrCodeExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon code already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Coupon updated successfully"})
}

// ----- validation -----

func validateLogin(req loginReq) []fieldError {
	var errs []fieldError
	if req.Username == "" {
		errs = append(errs, fieldError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func validateAddCoupon(req addCouponReq) []fieldError {
	var errs []fieldError
	if req.Code == "" {
		errs = append(errs, fieldError{Field: "code", Message: "code is required"})
	}
	switch {
	case req.DiscountAmount == nil:
		errs = append(errs, fieldError{Field: "discount_amount", Message: "discount_amount is required"})
	case *req.DiscountAmount < 0:
		errs = append(errs, fieldError{Field: "discount_amount", Message: "discount_amount must be non-negative"})
	}
	if req.IsActive == nil {
		errs = append(errs, fieldError{Field: "isActive", Message: "isActive is required"})
	}
	return errs
}

func validateUpdateCoupon(req updateCouponReq) []fieldError {
	var errs []fieldError
	if req.Code != nil && *req.Code == "" {
		errs = append(errs, fieldError{Field: "code", Message: "code must not be empty"})
	}
	if req.DiscountAmount != nil && *req.DiscountAmount < 0 {
		errs = append(errs, fieldError{Field: "discount_amount", Message: "discount_amount must be non-negative"})
	}
	return errs
}

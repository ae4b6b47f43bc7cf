package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/model"
	"github.com/pavannitheesh/Coupon-backend/internal/repository"
	"github.com/pavannitheesh/Coupon-backend/internal/utils"
)

type mockAdmins struct {
	getByUsernameFn func(ctx context.Context, username string) (model.Admin, error)
}

func (m *mockAdmins) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	return m.getByUsernameFn(ctx, username)
}

type mockCatalog struct {
	createFn        func(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error)
	updateFn        func(ctx context.Context, id uint64, u repository.CouponUpdate) error
	listAvailableFn func(ctx context.Context) ([]model.Coupon, error)
	listClaimedFn   func(ctx context.Context) ([]repository.ClaimedCouponRow, error)
}

func (m *mockCatalog) Create(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, code, discount, description, active)
	}
	return 1, nil
}

func (m *mockCatalog) Update(ctx context.Context, id uint64, u repository.CouponUpdate) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, u)
	}
	return nil
}

func (m *mockCatalog) ListAvailable(ctx context.Context) ([]model.Coupon, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) ListClaimed(ctx context.Context) ([]repository.ClaimedCouponRow, error) {
	if m.listClaimedFn != nil {
		return m.listClaimedFn(ctx)
	}
	return nil, nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:  "test-secret",
		TokenTTL:   24 * time.Hour,
		BcryptCost: 4, // bcrypt.MinCost keeps tests fast
	}
}

func request(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestLogin_Success(t *testing.T) {
	hash, err := utils.HashPassword("admin123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := NewAdminHandler(testConfig(), &mockAdmins{
		getByUsernameFn: func(ctx context.Context, username string) (model.Admin, error) {
			if username != "admin" {
				return model.Admin{}, sql.ErrNoRows
			}
			return model.Admin{ID: 1, Username: "admin", SecretHash: hash}, nil
		},
	}, &mockCatalog{})

	rec := request(t, h.Login, http.MethodPost, "/admin/login",
		`{"username":"admin","password":"admin123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var tokenCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" {
			tokenCookie = ck
		}
	}
	if tokenCookie == nil {
		t.Fatal("expected token cookie")
	}
	if !tokenCookie.HttpOnly {
		t.Fatal("token cookie must be http-only")
	}
	if tokenCookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("cookie lifetime must match token TTL, got %d", tokenCookie.MaxAge)
	}
	identity, err := utils.ParseAdminToken("test-secret", tokenCookie.Value)
	if err != nil {
		t.Fatalf("issued credential does not verify: %v", err)
	}
	if identity.ID != 1 || identity.Username != "admin" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := utils.HashPassword("right", 4)
	h := NewAdminHandler(testConfig(), &mockAdmins{
		getByUsernameFn: func(ctx context.Context, username string) (model.Admin, error) {
			return model.Admin{ID: 1, Username: "admin", SecretHash: hash}, nil
		},
	}, &mockCatalog{})

	rec := request(t, h.Login, http.MethodPost, "/admin/login",
		`{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{
		getByUsernameFn: func(ctx context.Context, username string) (model.Admin, error) {
			return model.Admin{}, sql.ErrNoRows
		},
	}, &mockCatalog{})

	rec := request(t, h.Login, http.MethodPost, "/admin/login",
		`{"username":"ghost","password":"whatever"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAddCoupon_ValidationEnumeratesAllFields(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{})

	rec := request(t, h.AddCoupon, http.MethodPost, "/admin/add-coupon", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Errors []fieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Errors) != 3 {
		t.Fatalf("expected all 3 failing fields enumerated, got %d: %+v", len(body.Errors), body.Errors)
	}
}

func TestAddCoupon_NegativeDiscount(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{})
	rec := request(t, h.AddCoupon, http.MethodPost, "/admin/add-coupon",
		`{"code":"SAVE10","discount_amount":-5,"isActive":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCoupon_DuplicateCode(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{
		createFn: func(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error) {
			return 0, repository.ErrCodeExists
		},
	})
	rec := request(t, h.AddCoupon, http.MethodPost, "/admin/add-coupon",
		`{"code":"SAVE10","discount_amount":10,"isActive":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCoupon_Created(t *testing.T) {
	var gotCode string
	var gotActive bool
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{
		createFn: func(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error) {
			gotCode, gotActive = code, active
			return 7, nil
		},
	})
	rec := request(t, h.AddCoupon, http.MethodPost, "/admin/add-coupon",
		`{"code":"  SAVE10 ","discount_amount":10,"description":"ten off","isActive":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotCode != "SAVE10" {
		t.Fatalf("code not trimmed: %q", gotCode)
	}
	if gotActive {
		t.Fatal("explicit isActive=false must be honored")
	}
}

func TestUpdateCoupon_PartialFieldsOnly(t *testing.T) {
	var got repository.CouponUpdate
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{
		updateFn: func(ctx context.Context, id uint64, u repository.CouponUpdate) error {
			got = u
			return nil
		},
	})
	rec := request(t, h.UpdateCoupon, http.MethodPut, "/admin/coupons/5",
		`{"description":"new text"}`, "id", "5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Description == nil || *got.Description != "new text" {
		t.Fatalf("description not passed through: %+v", got)
	}
	if got.Code != nil || got.DiscountAmount != nil || got.IsActive != nil {
		t.Fatalf("unsupplied fields must stay absent: %+v", got)
	}
}

func TestUpdateCoupon_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no fields", repository.ErrNoFields, http.StatusBadRequest},
		{"not found", repository.ErrCouponNotFound, http.StatusNotFound},
		{"duplicate code", repository.ErrCodeExists, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{
				updateFn: func(ctx context.Context, id uint64, u repository.CouponUpdate) error {
					return tc.err
				},
			})
			rec := request(t, h.UpdateCoupon, http.MethodPut, "/admin/coupons/5",
				`{"description":"x"}`, "id", "5")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestUpdateCoupon_InvalidID(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{})
	rec := request(t, h.UpdateCoupon, http.MethodPut, "/admin/coupons/abc",
		`{"description":"x"}`, "id", "abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetCoupons_SplitsInventory(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{
		listAvailableFn: func(ctx context.Context) ([]model.Coupon, error) {
			return []model.Coupon{{ID: 1, Code: "A"}}, nil
		},
		listClaimedFn: func(ctx context.Context) ([]repository.ClaimedCouponRow, error) {
			return []repository.ClaimedCouponRow{{
				Coupon:    model.Coupon{ID: 2, Code: "B", IsClaimed: true},
				IPAddress: "192.0.2.7",
			}}, nil
		},
	})
	rec := request(t, h.GetCoupons, http.MethodGet, "/admin/coupons", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Available []model.Coupon                `json:"available_coupons"`
		Claimed   []repository.ClaimedCouponRow `json:"claimed_coupons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Available) != 1 || len(body.Claimed) != 1 {
		t.Fatalf("unexpected split: %d available, %d claimed", len(body.Available), len(body.Claimed))
	}
	if body.Claimed[0].IPAddress != "192.0.2.7" {
		t.Fatalf("claimed row must carry the claimant ip, got %q", body.Claimed[0].IPAddress)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockAdmins{}, &mockCatalog{})
	rec := request(t, h.Logout, http.MethodPost, "/admin/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout must expire the token cookie")
	}
}

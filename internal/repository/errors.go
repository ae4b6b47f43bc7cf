// Package repository provides data access to the admins, coupons and
// claims tables.  Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting driver errors: ErrCodeExists maps
// to HTTP 400 (duplicate code), ErrCouponNotFound to 404, ErrNoFields to
// 400 and ErrAlreadyClaimed marks a lost allocation race inside a claim
// transaction.
package repository

import (
	"errors"
	"strings"
)

// ErrCodeExists is returned when a coupon code collides with another
// coupon.  The uq_coupons_code constraint is the authoritative guard; the
// pre-checks in Create and Update only give the nicer error path.
var ErrCodeExists = errors.New("coupon code already exists")

// ErrCouponNotFound is returned when no coupon with the given id exists.
var ErrCouponNotFound = errors.New("coupon not found")

// ErrNoFields is returned by Update when the caller supplied an empty
// field set.  Absence of a field is not the same as clearing it, so an
// empty update has nothing to do and is rejected.
var ErrNoFields = errors.New("no fields to update")

// ErrAlreadyClaimed is returned inside a claim transaction when the
// selected coupon was claimed by a concurrent transaction.  The caller
// must roll back; nothing is persisted.
var ErrAlreadyClaimed = errors.New("coupon already claimed")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062, raised by unique key violations).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

package model

import "time"

// Coupon is one catalog entry representing a single-use discount offer.
// A coupon is eligible for allocation while IsActive is true and
// IsClaimed is false.  IsClaimed never reverts once set; there is no
// unclaim operation anywhere in the system.
//
// Fields:
//
//	ID             – primary key identifier.
//	Code           – unique human-facing code handed to the claimant.
//	DiscountAmount – non-negative discount value (DECIMAL(10,2) in MySQL).
//	Description    – optional free text shown alongside the code.
//	IsActive       – catalog switch controlled by admins.
//	IsClaimed      – allocation flag, flipped exactly once by the allocator.
//	CreatedAt      – timestamp when the record was created.
//	UpdatedAt      – timestamp when the record was last updated.
type Coupon struct {
	ID             uint64    `json:"id"`              // coupons.id
	Code           string    `json:"code"`            // coupons.code
	DiscountAmount float64   `json:"discount_amount"` // coupons.discount_amount
	Description    string    `json:"description"`     // coupons.description
	IsActive       bool      `json:"is_active"`       // coupons.is_active
	IsClaimed      bool      `json:"is_claimed"`      // coupons.is_claimed
	CreatedAt      time.Time `json:"created_at"`      // coupons.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // coupons.updated_at
}

// ClaimedCoupon carries only the public fields of a successfully
// allocated coupon.  Internal ids and bookkeeping flags are never
// returned to claimants.
type ClaimedCoupon struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	Description    string  `json:"description"`
}

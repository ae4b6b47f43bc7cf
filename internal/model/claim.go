package model

import "time"

// Claim is the durable record binding one coupon to the identity that
// claimed it.  Exactly one claim exists per claimed coupon (enforced by a
// unique key on coupon_id) and a claim is immutable once written.
type Claim struct {
	ID        uint64    `json:"id"`         // claims.id
	CouponID  uint64    `json:"coupon_id"`  // claims.coupon_id
	IPAddress string    `json:"ip_address"` // claims.ip_address
	ClaimedAt time.Time `json:"claimed_at"` // claims.claimed_at
}

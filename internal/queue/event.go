package queue

// CouponClaimedEvent is published after a claim transaction commits.  It
// carries enough for downstream consumers to audit or notify without
// querying the primary database.  Only committed claims are published;
// the publisher is best-effort and never blocks or fails a claim.
type CouponClaimedEvent struct {
	CouponID       uint64  `json:"coupon_id"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	IPAddress      string  `json:"ip_address"`
	ClaimedAt      string  `json:"claimed_at"`
}

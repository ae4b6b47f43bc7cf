// Package allocator implements the claim allocation core: pick one
// eligible coupon, mark it claimed and record the claim, exactly once,
// regardless of how many requests race for it.  Correctness rests
// entirely on the claim store's transaction — there is no in-process
// cache or mirror of coupon availability, since a stale "available" view
// would reintroduce the race the transaction prevents.
package allocator

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pavannitheesh/Coupon-backend/internal/model"
	"github.com/pavannitheesh/Coupon-backend/internal/repository"
)

// ErrExhausted is returned when no eligible coupon remains.  Callers map
// it to HTTP 404.
var ErrExhausted = errors.New("no coupons available")

// Allocator hands out coupons from the shared pool.  It is safe for
// concurrent use; every Claim call runs its own transaction.
type Allocator struct {
	store repository.ClaimStore
}

// New returns an Allocator backed by the given claim store.
func New(store repository.ClaimStore) *Allocator {
	return &Allocator{store: store}
}

// Result is a successful allocation.  Coupon holds the public fields
// returned to the claimant; CouponID is kept for internal consumers
// (audit events) and must never appear in a claim response.
type Result struct {
	CouponID uint64
	Coupon   model.ClaimedCoupon
}

// Claim atomically allocates one coupon to the given claimant IP.
//
// Inside a single transaction it locks the oldest eligible coupon,
// flips its claimed flag and inserts the claim ledger row.  Any failure
// between selection and commit rolls the transaction back, leaving the
// coupon eligible for the next attempt.  Of N transactions racing for
// the last coupon exactly one commits; the rest observe the committed
// claim and finish with ErrExhausted.
func (a *Allocator) Claim(ctx context.Context, ip string) (Result, error) {
	var res Result
	err := a.store.ExecTx(ctx, func(q repository.ClaimQuerier) error {
		coupon, err := q.NextEligibleCoupon(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrExhausted
		}
		if err != nil {
			return err
		}
		if err := q.MarkClaimed(ctx, coupon.ID); err != nil {
			return err
		}
		if err := q.InsertClaim(ctx, coupon.ID, ip); err != nil {
			return err
		}
		res = Result{
			CouponID: coupon.ID,
			Coupon: model.ClaimedCoupon{
				Code:           coupon.Code,
				DiscountAmount: coupon.DiscountAmount,
				Description:    coupon.Description,
			},
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pavannitheesh/Coupon-backend/internal/model"
)

// ClaimQuerier is the set of statements a claim transaction is built from.
// Every method runs against the same transaction handle so the row lock
// taken by NextEligibleCoupon is held until commit or rollback.
type ClaimQuerier interface {
	// NextEligibleCoupon locks and returns the oldest-inserted coupon that
	// is active and unclaimed.  Returns sql.ErrNoRows when the pool is
	// exhausted.
	NextEligibleCoupon(ctx context.Context) (model.Coupon, error)
	// MarkClaimed flips is_claimed on the given coupon.  Returns
	// ErrAlreadyClaimed when a concurrent transaction got there first.
	MarkClaimed(ctx context.Context, couponID uint64) error
	// InsertClaim records the claim ledger row binding the coupon to the
	// claimant's IP.  Returns ErrAlreadyClaimed on a duplicate coupon_id.
	InsertClaim(ctx context.Context, couponID uint64, ip string) error
}

// ClaimStore runs claim transactions.  ExecTx begins a transaction, hands
// the callback a ClaimQuerier bound to it and commits only when the
// callback returns nil; any error rolls the whole transaction back so a
// coupon is never left claimed without a claim row or vice versa.
type ClaimStore interface {
	ExecTx(ctx context.Context, fn func(ClaimQuerier) error) error
}

type claimStore struct {
	db *sql.DB
}

// NewClaimStore returns a ClaimStore backed by the given database.
func NewClaimStore(db *sql.DB) ClaimStore { return &claimStore{db: db} }

func (s *claimStore) ExecTx(ctx context.Context, fn func(ClaimQuerier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&txQuerier{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w, rollback err: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txQuerier struct {
	tx *sql.Tx
}

// NextEligibleCoupon selects the single eligible coupon with the lowest id
// under FOR UPDATE.  Concurrent claim transactions serialize on the row
// lock; once the holder commits, a blocked reader re-evaluates the
// predicate against the committed state and moves on to the next eligible
// row, so two transactions can never return the same coupon.
func (q *txQuerier) NextEligibleCoupon(ctx context.Context) (model.Coupon, error) {
	const sel = `SELECT id, code, discount_amount, description, is_active, is_claimed, created_at, updated_at
	             FROM coupons
	             WHERE is_active = TRUE AND is_claimed = FALSE
	             ORDER BY id ASC
	             LIMIT 1
	             FOR UPDATE`
	return scanCoupon(q.tx.QueryRowContext(ctx, sel))
}

func (q *txQuerier) MarkClaimed(ctx context.Context, couponID uint64) error {
	res, err := q.tx.ExecContext(ctx,
		`UPDATE coupons SET is_claimed = TRUE, updated_at = UTC_TIMESTAMP()
		 WHERE id = ? AND is_claimed = FALSE`, couponID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != 1 {
		return ErrAlreadyClaimed
	}
	return nil
}

func (q *txQuerier) InsertClaim(ctx context.Context, couponID uint64, ip string) error {
	_, err := q.tx.ExecContext(ctx,
		`INSERT INTO claims (coupon_id, ip_address) VALUES (?, ?)`, couponID, ip)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyClaimed
		}
		return err
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pavannitheesh/Coupon-backend/internal/model"
)

// CouponRepo provides catalog operations over the coupons table: create,
// partial update and the two admin listings.  It never touches the
// is_claimed flag — the claim transition belongs exclusively to the claim
// store so the two writers cannot conflict on the same field set.
type CouponRepo struct {
	db *sql.DB
}

// NewCouponRepo returns a new CouponRepo bound to the given database.
func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{db: db} }

// Create inserts a new coupon and returns its generated id.  The code must
// be unique: a pre-check returns ErrCodeExists on the common path and the
// uq_coupons_code constraint catches the race between check and insert.
func (r *CouponRepo) Create(ctx context.Context, code string, discount float64, description string, active bool) (uint64, error) {
	var existing uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM coupons WHERE code = ? LIMIT 1`, code).Scan(&existing)
	if err == nil {
		return 0, ErrCodeExists
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO coupons (code, discount_amount, description, is_active) VALUES (?, ?, ?, ?)`,
		code, discount, description, active)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrCodeExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CouponUpdate models a partial update over the four mutable catalog
// fields.  A nil pointer means "leave untouched"; a set pointer carries
// the new value.  The claim bookkeeping flags are deliberately not
// representable here.
type CouponUpdate struct {
	Code           *string
	DiscountAmount *float64
	Description    *string
	IsActive       *bool
}

// Empty reports whether no field was supplied.
func (u CouponUpdate) Empty() bool {
	return u.Code == nil && u.DiscountAmount == nil && u.Description == nil && u.IsActive == nil
}

// Update applies the supplied subset of fields to the coupon with the
// given id and refreshes updated_at.  The statement is static — COALESCE
// keeps a column unchanged when its parameter is NULL — so no SQL is
// assembled dynamically.  Returns ErrNoFields for an empty subset,
// ErrCouponNotFound when the id does not exist and ErrCodeExists when the
// new code collides with another coupon.
func (r *CouponRepo) Update(ctx context.Context, id uint64, u CouponUpdate) error {
	if u.Empty() {
		return ErrNoFields
	}
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM coupons WHERE id = ? LIMIT 1`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrCouponNotFound
	}
	if err != nil {
		return err
	}
	if u.Code != nil {
		var other uint64
		err := r.db.QueryRowContext(ctx,
			`SELECT id FROM coupons WHERE code = ? AND id <> ? LIMIT 1`, *u.Code, id).Scan(&other)
		if err == nil {
			return ErrCodeExists
		}
		if err != sql.ErrNoRows {
			return err
		}
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE coupons
		 SET code = COALESCE(?, code),
		     discount_amount = COALESCE(?, discount_amount),
		     description = COALESCE(?, description),
		     is_active = COALESCE(?, is_active),
		     updated_at = UTC_TIMESTAMP()
		 WHERE id = ?`,
		u.Code, u.DiscountAmount, u.Description, u.IsActive, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCodeExists
		}
		return err
	}
	return nil
}

// ListAvailable returns all eligible coupons (active and unclaimed),
// newest first, for the admin inventory view.
func (r *CouponRepo) ListAvailable(ctx context.Context) ([]model.Coupon, error) {
	const q = `SELECT id, code, discount_amount, description, is_active, is_claimed, created_at, updated_at
	           FROM coupons
	           WHERE is_active = TRUE AND is_claimed = FALSE
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	coupons := make([]model.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coupons, nil
}

// ClaimedCouponRow pairs a claimed coupon with the claim that consumed it.
type ClaimedCouponRow struct {
	model.Coupon
	IPAddress string    `json:"ip_address"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// ListClaimed returns every claimed coupon joined with its claim record.
// The uq_claims_coupon key guarantees at most one claim per coupon, so the
// join cannot duplicate coupons.
func (r *CouponRepo) ListClaimed(ctx context.Context) ([]ClaimedCouponRow, error) {
	const q = `SELECT c.id, c.code, c.discount_amount, c.description, c.is_active, c.is_claimed,
	                  c.created_at, c.updated_at, cl.ip_address, cl.claimed_at
	           FROM coupons c
	           JOIN claims cl ON cl.coupon_id = c.id
	           WHERE c.is_claimed = TRUE
	           ORDER BY cl.claimed_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	claimed := make([]ClaimedCouponRow, 0)
	for rows.Next() {
		var row ClaimedCouponRow
		var desc sql.NullString
		if err := rows.Scan(
			&row.ID, &row.Code, &row.DiscountAmount, &desc, &row.IsActive, &row.IsClaimed,
			&row.CreatedAt, &row.UpdatedAt, &row.IPAddress, &row.ClaimedAt,
		); err != nil {
			return nil, err
		}
		row.Description = desc.String
		claimed = append(claimed, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claimed, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCoupon(s scanner) (model.Coupon, error) {
	var c model.Coupon
	var desc sql.NullString
	err := s.Scan(&c.ID, &c.Code, &c.DiscountAmount, &desc, &c.IsActive, &c.IsClaimed, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Coupon{}, err
	}
	c.Description = desc.String
	return c, nil
}

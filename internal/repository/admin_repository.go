package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pavannitheesh/Coupon-backend/internal/model"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by normalized username.  Returns
// sql.ErrNoRows when no such admin exists; callers must not reveal to the
// client whether the username or the secret was wrong.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	username = strings.TrimSpace(username)
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, secret_hash, created_at FROM admins WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.SecretHash, &a.CreatedAt)
	return a, err
}

// Package database opens the MySQL pool and provisions the schema the
// coupon service depends on.  Provisioning is idempotent: tables are
// created with IF NOT EXISTS and the bootstrap admin is only inserted
// when the admins table is empty.
package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		secret_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admins_username (username)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(50) NOT NULL,
		discount_amount DECIMAL(10,2) NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_claimed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_coupons_code (code)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS claims (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		coupon_id BIGINT UNSIGNED NOT NULL,
		ip_address VARCHAR(45) NOT NULL,
		claimed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_claims_coupon (coupon_id),
		CONSTRAINT fk_claims_coupon FOREIGN KEY (coupon_id) REFERENCES coupons(id)
	) ENGINE=InnoDB`,
}

// Provision creates the admins, coupons and claims tables when they do not
// exist yet and seeds the default admin account when no admin has been
// created.  The seed secret is hashed with bcrypt before insertion.
func Provision(ctx context.Context, db *sql.DB, cfg config.Config) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.SeedAdminPass, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO admins (username, secret_hash) VALUES (?, ?)`,
		cfg.SeedAdminUser, hash); err != nil {
		return err
	}
	log.Printf("provision: seeded default admin %q", cfg.SeedAdminUser)
	return nil
}

package model

import "time"

// Admin mirrors the 'admins' table.  Admin rows are written only during
// bootstrap provisioning; the running service reads them to authenticate
// operators.
type Admin struct {
	ID         uint64    `json:"id"`       // admins.id
	Username   string    `json:"username"` // admins.username
	SecretHash string    `json:"-"`        // admins.secret_hash, never serialized
	CreatedAt  time.Time `json:"created_at"`
}

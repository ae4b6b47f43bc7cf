package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AdminToken represents a signed JWT admin credential along with its expiry.
// The Token field contains the serialized JWT string.  Exp stores the UTC
// expiration timestamp.  The credential is delivered to the operator as an
// HTTP-only cookie and presented back on every inventory mutation.
type AdminToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// AdminIdentity is what a verified credential resolves to: the admin's
// database id and username as embedded in the token claims.
type AdminIdentity struct {
	ID       uint64
	Username string
}

// ErrInvalidToken is returned by ParseAdminToken for any credential that is
// missing, malformed, carries the wrong signing method, fails signature
// verification or has expired.  Callers should treat all of these the same
// way: the request is unauthenticated.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewAdminToken builds and signs an HS256 JWT for an admin.  The JWT
// carries standard claims: subject (sub, the admin id), the admin's
// username, expiration (exp) and issued at (iat).
func NewAdminToken(secret string, adminID uint64, username string, ttl time.Duration) (AdminToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":      adminID,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}

// ParseAdminToken validates the signature and expiry of a presented
// credential and extracts the admin identity from its claims.  Expiry is
// enforced by the jwt library via the exp claim.
func ParseAdminToken(secret, raw string) (AdminIdentity, error) {
	if raw == "" {
		return AdminIdentity{}, ErrInvalidToken
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return AdminIdentity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return AdminIdentity{}, ErrInvalidToken
	}
	var id AdminIdentity
	switch sub := claims["sub"].(type) {
	case float64:
		// JSON numbers decode as float64; convert back to uint64.
		id.ID = uint64(sub)
	case string:
		if parsed, perr := strconv.ParseUint(sub, 10, 64); perr == nil {
			id.ID = parsed
		}
	}
	if name, ok := claims["username"].(string); ok {
		id.Username = name
	}
	if id.ID == 0 {
		return AdminIdentity{}, ErrInvalidToken
	}
	return id, nil
}

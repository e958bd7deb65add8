// Package denylist records signed out access tokens until they would have expired.
package denylist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// A Store remembers revoked tokens.
type Store interface {
	// Revoke denies token until the time given.
	// A time not in the future is a no-op.
	Revoke(ctx context.Context, token string, until time.Time) error

	// Revoked asserts whether token is currently denied.
	Revoked(ctx context.Context, token string) (bool, error)
}

// Key derives the key a token is stored under, so raw tokens are never kept.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

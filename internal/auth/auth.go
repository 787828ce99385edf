// Package auth reads what the client needs from a stored access token.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

// ExpiresAt reads the exp claim without checking the signature; the client
// never holds the signing key. ok is false when the token has no exp.
func ExpiresAt(raw string) (exp time.Time, ok bool, err error) {
	var c jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		return time.Time{}, false, ErrBadToken
	}
	if c.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return c.ExpiresAt.Time, true, nil
}

// Expired reports whether a stored token is unusable at now. Opaque tokens
// the client cannot read are left for the backend to judge.
func Expired(raw string, now time.Time) bool {
	exp, ok, err := ExpiresAt(raw)
	if err != nil || !ok {
		return false
	}
	return !now.Before(exp)
}

package backendtest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errBadToken = errors.New("invalid token")

// lifetime of tokens handed out by /auth/login
const accessTTL = 30 * time.Minute

type claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func signToken(uid string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// verifyToken checks signature and expiry and returns the user id.
func verifyToken(raw string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errBadToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if c.UserID == "" {
		return "", errBadToken
	}
	return c.UserID, nil
}

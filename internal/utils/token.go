package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the token payload issued on login and checked by the JWT
// middleware.
type AuthClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func IssueToken(secret, candidateID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   candidateID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

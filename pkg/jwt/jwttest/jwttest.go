// Package jwttest signs session tokens the way the platform does, for tests of
// code that only reads them.
package jwttest

import (
	"time"

	"fanvault-console/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Sign returns an HS256 token for userID and role that expires after ttl. A
// negative ttl gives an already expired token.
func Sign(secret, userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

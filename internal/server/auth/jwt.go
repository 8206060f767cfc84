// Package auth issues and verifies the HS256 access tokens that carry a
// request's principal.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
)

// Claims carries the principal attributes inside the access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

func GenerateToken(userID, email string, admin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
		Admin:  admin,
	})

	return token.SignedString(secretKey)
}

func ParseClaims(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// PrincipalFromToken resolves the acting principal from an access token.
// Absent or unparseable tokens resolve to the anonymous principal rather
// than an error; the caller decides whether anonymous access is acceptable.
func PrincipalFromToken(tokenString string, secretKey []byte) authz.Principal {
	if tokenString == "" {
		return authz.Anonymous()
	}
	claims, err := ParseClaims(tokenString, secretKey)
	if err != nil {
		return authz.Anonymous()
	}
	return authz.UserActor(claims.UserID, claims.Email, claims.Admin)
}

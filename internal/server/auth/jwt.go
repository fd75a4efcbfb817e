// Package auth mints and parses the HS256 access tokens handed out after a
// successful OTP verification.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the marketplace identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"uid"`
	AccountType string `json:"acct,omitempty"`
}

// Identity is what the server learns from a valid access token.
type Identity struct {
	UserID      string
	AccountType string
}

func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:      id.UserID,
		AccountType: id.AccountType,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its identity. An expired token
// yields common.ErrTokenExpired, anything else that fails validation
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, AccountType: claims.AccountType}, nil
}

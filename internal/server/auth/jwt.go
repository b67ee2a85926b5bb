// Package auth issues and verifies the bearer tokens of the admin API.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the administrator name next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"username"`
}

const issuer = "linkdrop"

func GenerateToken(userName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserName: userName,
	})

	return token.SignedString(secretKey)
}

// GetUserNameFromToken validates tokenString and returns its subject.
// Expired tokens give common.ErrTokenExpired, anything else that fails
// validation gives common.ErrInvalidToken.
func GetUserNameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserName == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserName, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

const TokenExpire = 3 * time.Hour

type Claims struct {
	jwt.RegisteredClaims
	UserID int64
}

// BuildJWTString signs a token the way the external auth service does.
func BuildJWTString(id int64, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpire)),
			},
			UserID: id,
		},
	)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("JWT signing: %w", err)
	}
	return tokenString, nil
}

func CheckToken(tokenString string, secret []byte) (Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, serviceerrs.ErrTokenExpired
	}
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse token %w", err)
	}
	if claims.UserID <= 0 {
		return Claims{}, errors.New("token carries no user ID")
	}

	return *claims, nil
}

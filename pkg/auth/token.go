package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access tokens. Tokens are minted and verified locally
// with a shared HS256 secret.
type Claims struct {
	UserID     int64
	TelegramID int64
}

// CreateAccessToken signs an HS256 token embedding the user identity with
// the given lifetime.
func CreateAccessToken(claims Claims, secret string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     claims.UserID,
		"telegram_id": claims.TelegramID,
		"exp":         time.Now().Add(expiresIn).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies the signature and expiry and returns the
// identity claims.
func ParseAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidToken
	}
	telegramID, _ := mapClaims["telegram_id"].(float64)

	return &Claims{
		UserID:     int64(userID),
		TelegramID: int64(telegramID),
	}, nil
}

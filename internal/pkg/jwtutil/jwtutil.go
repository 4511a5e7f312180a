package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
}

// SigningMethod resolves a configured HS-family algorithm name.
func SigningMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	switch algorithm {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
}

// GenerateToken issues a token whose subject identifies the user and whose
// expiry is now plus ttl.
func GenerateToken(secret, algorithm string, ttl time.Duration, subject string) (string, error) {
	method, err := SigningMethod(algorithm)
	if err != nil {
		return "", err
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature and expiry and returns the subject. Every
// failure mode (malformed, expired, wrong signature, wrong algorithm)
// collapses into ErrInvalidToken.
func ParseToken(secret, algorithm, tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{algorithm}))

	var claims Claims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

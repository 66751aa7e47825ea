package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims payload of an access token. Tokens are issued by the account service;
// this package only needs to read them back, Generate exists for tooling and tests.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
}

// Manager signs and verifies HMAC tokens
type Manager struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewManager creates a Manager
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// Generate issues a token for the user
func (m *Manager) Generate(userID uint64, name, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
		Name:   name,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
}

// Verify parses and validates a token
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

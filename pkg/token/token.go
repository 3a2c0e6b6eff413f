package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims defines the JWT payload carried by a bearer credential.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Maker issues and verifies signed bearer tokens. The signing key and
// validity window are process-wide configuration.
type Maker struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewMaker creates a token maker with the provided secret and ttl.
// A zero ttl defaults to one day.
func NewMaker(secret string, ttl time.Duration, issuer string) *Maker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Maker{secret: []byte(secret), ttl: ttl, issuer: issuer}
}

// Generate issues a signed HS256 token for the given user ID.
func (m *Maker) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify validates a token string and extracts its claims.
func (m *Maker) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

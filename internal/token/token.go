// Package token issues and verifies the signed session tokens behind cookie
// sessions. Signing is stateless: nothing is persisted and there is no
// revocation, so a token stays valid until its natural expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the canonical token lifetime.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrExpired indicates a well-formed, correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature indicates a signature mismatch.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrMalformed indicates a token that could not be parsed at all.
	ErrMalformed = errors.New("token malformed")
)

// Claims carries the registered claims plus the account identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Manager signs and verifies session tokens with a symmetric secret. The
// secret is injected at construction time, never read from the environment
// inside business logic.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager. An empty secret is a configuration fault
// and must abort startup.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must be provided")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue produces a signed token bound to userID.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify validates signature and expiry and returns the embedded user id.
// A signature mismatch always wins over expiry, so a tampered token is never
// reported as merely expired.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	default:
		return "", ErrMalformed
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidSignature
	}
	return claims.UserID, nil
}

// internal/app/system/token/token.go
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid unless configured
// otherwise: seven days.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken covers malformed tokens, bad signatures, and tokens
	// signed with an unexpected algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token parsed and verified but
	// its expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the identity embedded in a bearer token. Subject carries the
// user's ObjectID hex.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the token subject: the user's ObjectID hex.
func (c *Claims) UserID() string {
	return c.Subject
}

// Service issues and verifies signed bearer tokens. Both operations are
// pure functions of the inputs, the signing secret, and the clock; rotating
// the secret invalidates every outstanding token.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token Service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token embedding the user's id, email, and role, expiring
// TTL from now.
func (s *Service) Issue(userID, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and checks a token string. It returns ErrExpiredToken when
// the only problem is expiry, ErrInvalidToken for everything else, and the
// embedded claims on success.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

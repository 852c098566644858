// Package tokens issues and verifies the signed session tokens carried in the
// session cookie. Tokens are stateless: validity is signature plus expiry.
package tokens

import (
	"errors"
	"time"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is what a session token asserts about its holder.
type Claims struct {
	AccountID string
	Email     string
	Role      string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs with a single process-wide HMAC key.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Service{secret: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source; tests use it to step past expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TTL is the lifetime given to newly issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs c. Any ExpiresAt on c is ignored and replaced by now+TTL.
func (s *Service) Issue(c Claims) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// Verify fails closed: every failure, whatever its cause, is reported as
// an unauthenticated "invalid token".
func (s *Service) Verify(raw string) (c Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = Claims{}, invalid()
		}
	}()

	if raw == "" {
		return Claims{}, invalid()
	}

	parsed := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid || parsed.Subject == "" || parsed.ExpiresAt == nil {
		return Claims{}, invalid()
	}

	return Claims{
		AccountID: parsed.Subject,
		Email:     parsed.Email,
		Role:      parsed.Role,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

func invalid() error { return apperr.Unauthenticated("invalid token") }

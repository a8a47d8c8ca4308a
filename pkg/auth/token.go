package auth

import (
	"errors"
	"fmt"
	"time"

	"storefront/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrUnknownSubject = errors.New("token subject is not the administrator")
)

// Claims is the payload of an admin bearer token. IssuedAt is in unix
// milliseconds; the token is valid for [IssuedAt, IssuedAt+TTL).
type Claims struct {
	Email    string `json:"email"`
	IssuedAt int64  `json:"issued_at"`
	jwt.RegisteredClaims
}

func (c Claims) IssuedTime() time.Time {
	return time.UnixMilli(c.IssuedAt).UTC()
}

// TokenIssuer issues and verifies admin bearer tokens.
type TokenIssuer interface {
	Issue(email string) (string, error)
	Verify(token string) (*Claims, error)
}

// Signer is an HS256 TokenIssuer bound to a single administrator address.
type Signer struct {
	secret     []byte
	adminEmail string
	issuer     string
	ttl        time.Duration
	clock      clock.Clock
}

type Option func(*Signer)

func WithClock(c clock.Clock) Option {
	return func(s *Signer) { s.clock = c }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Signer) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithIssuer(issuer string) Option {
	return func(s *Signer) { s.issuer = issuer }
}

func NewSigner(secret, adminEmail string, opts ...Option) (*Signer, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 bytes, got %d", len(secret))
	}
	if adminEmail == "" {
		return nil, errors.New("admin email is required")
	}

	s := &Signer{
		secret:     []byte(secret),
		adminEmail: adminEmail,
		issuer:     "storefront",
		ttl:        DefaultTokenTTL,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Signer) Issue(email string) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		Email:    email,
		IssuedAt: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Verify checks the signature, the subject and the validity window. Expiry is
// evaluated on the millisecond issued_at claim rather than the second-precision
// registered claims.
func (s *Signer) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Email != s.adminEmail {
		return nil, ErrUnknownSubject
	}

	issued := claims.IssuedTime()
	now := s.clock.Now()
	if now.Before(issued) {
		return nil, fmt.Errorf("%w: issued in the future", ErrInvalidToken)
	}
	if now.Sub(issued) >= s.ttl {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies HS256 JWTs. It holds no session state:
// verification depends only on the token and the signing secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithIssuer sets the iss claim written and required by the service.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) { s.issuer = issuer }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a token for accountID that expires after the configured TTL.
func (s *TokenService) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("issue token: %w: empty subject", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its subject.
func (s *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenMalformed):
		return "", domain.ErrInvalidToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", domain.ErrTokenExpired
	default:
		return "", domain.ErrInvalidToken
	}

	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, WithIssuer("shortener-service"))

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", subject)
	}
}

func TestTokenService_IssueRejectsEmptySubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Issue(""); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc := NewTokenService("secret", time.Hour, WithClock(func() time.Time { return now }))

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = issuedAt.Add(2 * time.Hour)
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_FlippedSignatureBit(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	sig[0] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	if _, err := svc.Verify(strings.Join(parts, ".")); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, WithIssuer("shortener-service"))

	otherSecret, _ := NewTokenService("other", time.Hour, WithIssuer("shortener-service")).Issue("user-1")
	otherIssuer, _ := NewTokenService("secret", time.Hour, WithIssuer("someone-else")).Issue("user-1")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "shortener-service",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
		Issuer:  "shortener-service",
	})
	withoutExpiry, _ := noExp.SignedString([]byte("secret"))

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "shortener-service",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	withoutSubject, _ := noSub.SignedString([]byte("secret"))

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-token",
		"wrong secret":    otherSecret,
		"wrong issuer":    otherIssuer,
		"alg none":        unsigned,
		"missing expiry":  withoutExpiry,
		"missing subject": withoutSubject,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

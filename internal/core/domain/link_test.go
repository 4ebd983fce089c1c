package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"https", "https://example.com/very/long/path", true},
		{"http with query", "http://example.com/a?b=c#d", true},
		{"surrounding spaces", "  https://example.com  ", false},
		{"trailing space", "https://example.com/x ", false},
		{"trailing newline", "https://example.com/x\n", false},
		{"plain words", "not a url", false},
		{"empty", "", false},
		{"relative", "/just/a/path", false},
		{"no host", "https://", false},
		{"ftp scheme", "ftp://example.com/file", false},
		{"javascript", "javascript:alert(1)", false},
		{"too long", "https://example.com/" + strings.Repeat("a", MaxURLLength), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateURL(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected %q to be valid, got %v", tc.in, err)
				}
				if got != tc.in {
					t.Fatalf("expected url returned unchanged, got %q", got)
				}
				return
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Fatalf("expected ErrInvalidURL for %q, got %v", tc.in, err)
			}
		})
	}
}

func TestIsWellFormedCode(t *testing.T) {
	if !IsWellFormedCode("AbC123", 6) {
		t.Fatalf("expected AbC123 to be well formed")
	}
	if IsWellFormedCode("AbC12", 6) {
		t.Fatalf("expected wrong length to be rejected")
	}
	if IsWellFormedCode("AbC-12", 6) {
		t.Fatalf("expected non-base62 character to be rejected")
	}
	if !IsWellFormedCode("abc", 0) {
		t.Fatalf("expected zero length to skip length check")
	}
	if IsWellFormedCode("", 0) {
		t.Fatalf("expected empty code to be rejected")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email: %q", got)
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"plain", "alice@example.com", true},
		{"subdomain", "bob.smith@mail.example.org", true},
		{"empty", "", false},
		{"no at", "not-an-email", false},
		{"display name", "alice <alice@example.com>", false},
		{"no domain", "alice@", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEmail(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected %q to be valid, got %v", tc.in, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput for %q, got %v", tc.in, err)
			}
		})
	}
}

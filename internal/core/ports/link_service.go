package ports

import (
	"context"
	"time"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// ShortenResult is returned by LinkService.Shorten.
type ShortenResult struct {
	Code        string
	ShortURL    string
	OriginalURL string
	CreatedAt   time.Time
}

// LinkService defines the shortening and redirect use cases.
type LinkService interface {
	// Shorten verifies the bearer token, validates the URL and stores a new
	// link owned by the token subject.
	Shorten(ctx context.Context, token, originalURL string) (*ShortenResult, error)
	// Resolve looks a code up without authentication.
	Resolve(ctx context.Context, code string) (*domain.Link, error)
}

package ports

import (
	"context"
	"time"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// LinkRepository persists short links.
type LinkRepository interface {
	// Insert stores a new link. It is the uniqueness boundary for codes and
	// returns domain.ErrCodeExists when the code is taken.
	Insert(ctx context.Context, link *domain.Link) error
	// FindByCode returns domain.ErrLinkNotFound when no link has the code.
	FindByCode(ctx context.Context, code string) (*domain.Link, error)
	// RecordVisit bumps the click counter and last-used timestamp.
	RecordVisit(ctx context.Context, code string, at time.Time) error
}

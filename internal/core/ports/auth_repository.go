package ports

import (
	"context"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// AuthRepository persists accounts. Create must fail with domain.ErrUserExists
// when the normalized email is already taken, atomically with the insert.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

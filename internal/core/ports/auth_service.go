package ports

import (
	"context"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenIssuer mints and verifies stateless bearer tokens.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
	// Verify returns the token subject, domain.ErrTokenExpired or
	// domain.ErrInvalidToken.
	Verify(token string) (string, error)
}

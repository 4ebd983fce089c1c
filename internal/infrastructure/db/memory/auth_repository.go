// Package memory holds in-process implementations of the repositories, used
// when STORAGE=memory and as fakes in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// AuthRepository is an in-memory ports.AuthRepository keyed by normalized
// email.
type AuthRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{byEmail: make(map[string]*domain.User)}
}

// Create checks and inserts under a single write lock, so concurrent signups
// for the same email cannot both succeed.
func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrUserExists
	}

	stored := *user
	stored.Email = email
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byEmail[email] = &stored

	out := stored
	return &out, nil
}

func (r *AuthRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// Len reports the number of stored accounts.
func (r *AuthRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

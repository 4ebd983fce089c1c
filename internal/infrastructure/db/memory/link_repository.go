package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// LinkRepository is an in-memory ports.LinkRepository.
type LinkRepository struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Link
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{byCode: make(map[string]*domain.Link)}
}

func (r *LinkRepository) Insert(_ context.Context, link *domain.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[link.Code]; exists {
		return domain.ErrCodeExists
	}
	r.byCode[link.Code] = cloneLink(link)
	return nil
}

func (r *LinkRepository) FindByCode(_ context.Context, code string) (*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return cloneLink(l), nil
}

func (r *LinkRepository) RecordVisit(_ context.Context, code string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byCode[code]
	if !ok {
		return domain.ErrLinkNotFound
	}
	l.Clicks++
	ts := at.UTC()
	l.LastUsedAt = &ts
	return nil
}

// Len reports the number of stored links.
func (r *LinkRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCode)
}

// Ping always succeeds; it lets the memory store sit in readiness checks.
func (r *LinkRepository) Ping(context.Context) error { return nil }

func cloneLink(l *domain.Link) *domain.Link {
	out := *l
	if l.LastUsedAt != nil {
		ts := *l.LastUsedAt
		out.LastUsedAt = &ts
	}
	return &out
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaevor/go-nanoid"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/domain"
)

const (
	DefaultCodeLength  = 6
	DefaultMaxAttempts = 5
)

// CodeGenerator produces random base62 short codes and retries on collision.
type CodeGenerator struct {
	next        func() string
	length      int
	maxAttempts int
}

// NewCodeGenerator builds a generator over domain.Base62Alphabet. nanoid reads
// from crypto/rand, so codes are not predictable from earlier ones.
func NewCodeGenerator(length, maxAttempts int) (*CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	next, err := nanoid.CustomASCII(domain.Base62Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}
	return &CodeGenerator{next: next, length: length, maxAttempts: maxAttempts}, nil
}

// newCodeGeneratorFunc wraps an arbitrary source; tests use it to force
// collisions.
func newCodeGeneratorFunc(next func() string, length, maxAttempts int) *CodeGenerator {
	return &CodeGenerator{next: next, length: length, maxAttempts: maxAttempts}
}

// GenerateUnique draws codes and hands each to reserve, which must insert
// atomically and return domain.ErrCodeExists when the code is taken. Any other
// reserve error aborts. After maxAttempts collisions it returns
// domain.ErrCodeSpaceExhausted.
func (g *CodeGenerator) GenerateUnique(ctx context.Context, reserve func(ctx context.Context, code string) error) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := g.next()
		err := reserve(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrCodeExists) {
			return "", err
		}
		metrics.CodeCollisionsTotal.Inc()
	}
	return "", domain.ErrCodeSpaceExhausted
}

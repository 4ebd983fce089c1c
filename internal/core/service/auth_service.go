package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/domain"
	"github.com/shortlink/shortener-service/internal/core/ports"
)

const (
	DefaultMinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// AuthService implements signup and login.
type AuthService struct {
	repo        ports.AuthRepository
	tokens      ports.TokenIssuer
	minPassword int
	cost        int
	dummyHash   []byte
	log         zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithMinPasswordLength overrides DefaultMinPasswordLength.
func WithMinPasswordLength(n int) AuthOption {
	return func(s *AuthService) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:        repo,
		tokens:      tokens,
		minPassword: DefaultMinPasswordLength,
		cost:        bcrypt.DefaultCost,
		log:         log.With().Str("component", "auth_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cost < bcrypt.MinCost || s.cost > bcrypt.MaxCost {
		s.log.Warn().Int("cost", s.cost).Msg("bcrypt cost out of range, using default")
		s.cost = bcrypt.DefaultCost
	}

	// Compared against on unknown emails so both login failure paths pay for
	// one bcrypt comparison.
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	if err != nil {
		// Only reachable if the system random source fails.
		panic(fmt.Sprintf("auth service: generate dummy hash: %v", err))
	}
	s.dummyHash = hash
	return s
}

// Signup validates and stores a new account with a bcrypt password hash.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)
	if err := s.validate(normalized, password); err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        normalized,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues(metrics.ResultConflict).Inc()
			return nil, domain.ErrUserExists
		}
		metrics.SignupsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("user_id", created.ID).Msg("account created")
	return created, nil
}

// Login checks credentials and returns a signed token. Unknown emails and
// wrong passwords both produce domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	normalized := domain.NormalizeEmail(email)
	if normalized == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Debug().Str("user_id", user.ID).Msg("login succeeded")
	return token, user, nil
}

func (s *AuthService) validate(email, password string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if len(password) < s.minPassword {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, s.minPassword)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

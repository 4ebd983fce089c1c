package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/domain"
	"github.com/shortlink/shortener-service/internal/core/ports"
)

// maxCodeLength bounds codes accepted by Resolve, independent of the length
// currently configured for new codes.
const maxCodeLength = 64

// LinkService shortens URLs for authenticated accounts and resolves codes
// for anyone.
type LinkService struct {
	repo    ports.LinkRepository
	tokens  ports.TokenIssuer
	codes   *CodeGenerator
	visits  ports.VisitRecorder
	baseURL string
	now     func() time.Time
	log     zerolog.Logger
}

// NewLinkService wires the shortening use cases. visits may be nil, in which
// case redirects are not counted.
func NewLinkService(
	repo ports.LinkRepository,
	tokens ports.TokenIssuer,
	codes *CodeGenerator,
	visits ports.VisitRecorder,
	baseURL string,
	log zerolog.Logger,
) *LinkService {
	return &LinkService{
		repo:    repo,
		tokens:  tokens,
		codes:   codes,
		visits:  visits,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		log:     log.With().Str("component", "link_service").Logger(),
	}
}

// Shorten stores originalURL under a fresh code owned by the token subject.
// The token is checked before the URL. On any error nothing has been written.
func (s *LinkService) Shorten(ctx context.Context, token, originalURL string) (*ports.ShortenResult, error) {
	ownerID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return s.ShortenFor(ctx, ownerID, originalURL)
}

// ShortenFor stores originalURL under a fresh code owned by an already
// authenticated account.
func (s *LinkService) ShortenFor(ctx context.Context, ownerID, originalURL string) (*ports.ShortenResult, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	target, err := domain.ValidateURL(originalURL)
	if err != nil {
		return nil, err
	}

	link := &domain.Link{
		OriginalURL: target,
		OwnerID:     ownerID,
		CreatedAt:   s.now().UTC(),
	}

	code, err := s.codes.GenerateUnique(ctx, func(ctx context.Context, code string) error {
		link.Code = code
		return s.repo.Insert(ctx, link)
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeSpaceExhausted) {
			s.log.Error().Str("owner_id", ownerID).Msg("short code space exhausted")
		}
		return nil, fmt.Errorf("shorten: %w", err)
	}

	metrics.LinksCreatedTotal.Inc()
	s.log.Info().Str("code", code).Str("owner_id", ownerID).Msg("link created")

	return &ports.ShortenResult{
		Code:        code,
		ShortURL:    s.baseURL + "/" + code,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
	}, nil
}

// Resolve returns the link stored under code. Malformed and unknown codes
// both yield domain.ErrLinkNotFound.
func (s *LinkService) Resolve(ctx context.Context, code string) (*domain.Link, error) {
	if len(code) > maxCodeLength || !domain.IsWellFormedCode(code, 0) {
		metrics.RedirectsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		return nil, domain.ErrLinkNotFound
	}

	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			metrics.RedirectsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
			return nil, domain.ErrLinkNotFound
		}
		metrics.RedirectsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("resolve: %w", err)
	}

	metrics.RedirectsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	if s.visits != nil && !s.visits.Enqueue(ports.VisitInput{Code: code, At: s.now().UTC()}) {
		metrics.VisitsRecordedTotal.WithLabelValues(metrics.ResultDropped).Inc()
		s.log.Warn().Str("code", code).Msg("visit queue full, visit dropped")
	}

	return link, nil
}

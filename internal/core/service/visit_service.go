package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/domain"
	"github.com/shortlink/shortener-service/internal/core/ports"
)

type visitService struct {
	repo ports.LinkRepository
	log  zerolog.Logger
}

// NewVisitService returns a VisitService that persists click statistics.
func NewVisitService(repo ports.LinkRepository, log zerolog.Logger) ports.VisitService {
	return &visitService{
		repo: repo,
		log:  log.With().Str("component", "visit_service").Logger(),
	}
}

// Process increments the click counter of the visited link.
func (s *visitService) Process(ctx context.Context, in ports.VisitInput) error {
	start := time.Now()
	defer func() {
		metrics.VisitProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := s.repo.RecordVisit(ctx, in.Code, at); err != nil {
		metrics.VisitsRecordedTotal.WithLabelValues(metrics.ResultFailure).Inc()
		if errors.Is(err, domain.ErrLinkNotFound) {
			s.log.Warn().Str("code", in.Code).Msg("visit for unknown link")
		}
		return fmt.Errorf("record visit: %w", err)
	}

	metrics.VisitsRecordedTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Debug().Str("code", in.Code).Msg("visit recorded")
	return nil
}

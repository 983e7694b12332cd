package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"network-dashboard/internal/cache"
	"network-dashboard/internal/chart"
	"network-dashboard/internal/model"
	"network-dashboard/internal/source"
)

var (
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrAwaitingData      = errors.New("awaiting data file")
	ErrInvalidSelection  = errors.New("invalid selection")
)

const cachePrefix = "rows:"

// NetworkService serves the aggregated table through a TTL cache and builds
// dashboard figures from it.
type NetworkService struct {
	source  source.Source
	cache   cache.Store
	ttl     time.Duration
	metrics *MetricsService
	log     zerolog.Logger
}

func NewNetworkService(src source.Source, store cache.Store, ttl time.Duration, metrics *MetricsService, log zerolog.Logger) *NetworkService {
	return &NetworkService{
		source:  src,
		cache:   store,
		ttl:     ttl,
		metrics: metrics,
		log:     log,
	}
}

func (s *NetworkService) cacheKey() string {
	return cachePrefix + s.source.Name()
}

func (s *NetworkService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// Rows returns the aggregated table. Cache failures are logged and the
// source is queried directly.
func (s *NetworkService) Rows(ctx context.Context) ([]model.AggregatedRow, error) {
	key := s.cacheKey()
	if s.cacheEnabled() {
		var cached []model.AggregatedRow
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			s.metrics.RecordCacheLookup("hit")
			if cached == nil {
				cached = []model.AggregatedRow{}
			}
			return cached, nil
		case errors.Is(err, cache.ErrMiss):
			s.metrics.RecordCacheLookup("miss")
		default:
			s.metrics.RecordCacheLookup("error")
			s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	start := time.Now()
	rows, err := s.source.Load(ctx)
	s.metrics.ObserveLoad(s.source.Name(), len(rows), time.Since(start), err)
	if err != nil {
		s.log.Error().Err(err).Str("source", s.source.Name()).Msg("load aggregated table")
		if errors.Is(err, source.ErrAwaitingFile) {
			return nil, fmt.Errorf("%w: %w", ErrAwaitingData, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if rows == nil {
		rows = []model.AggregatedRow{}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, rows, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return rows, nil
}

// Invalidate drops every cached table so the next Rows call reloads.
func (s *NetworkService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	s.log.Info().Msg("aggregated table cache invalidated")
	return nil
}

// Dashboard is the figure together with the filter choices it was built from.
type Dashboard struct {
	Options chart.OptionSet `json:"options"`
	Figure  chart.Figure    `json:"figure"`
}

// Dashboard resolves the raw city and technology values and builds the figure.
func (s *NetworkService) Dashboard(ctx context.Context, city string, techs []string) (*Dashboard, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}

	opts := chart.Options(rows)
	sel, err := chart.ParseSelection(opts, city, techs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	fig, err := chart.BuildFigure(rows, sel)
	if err != nil {
		return nil, fmt.Errorf("build figure: %w", err)
	}
	return &Dashboard{Options: opts, Figure: fig}, nil
}

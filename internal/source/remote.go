package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"network-dashboard/internal/model"
)

const maxErrorBody = 512

// RemoteSource fetches the table from a network-api /data endpoint. Calls go
// through a circuit breaker and are never retried.
type RemoteSource struct {
	url    string
	token  string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]model.AggregatedRow]
}

func NewRemoteSource(url, token string, timeout time.Duration, log zerolog.Logger) *RemoteSource {
	cb := gobreaker.NewCircuitBreaker[[]model.AggregatedRow](gobreaker.Settings{
		Name:        "network-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &RemoteSource{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
		cb:     cb,
	}
}

func (s *RemoteSource) Name() string {
	return "remote"
}

func (s *RemoteSource) Load(ctx context.Context) ([]model.AggregatedRow, error) {
	rows, err := s.cb.Execute(func() ([]model.AggregatedRow, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("fetch %s: %w", s.url, err)
		}
		return nil, err
	}
	return rows, nil
}

func (s *RemoteSource) fetch(ctx context.Context) ([]model.AggregatedRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", s.url, resp.StatusCode, body)
	}

	rows := make([]model.AggregatedRow, 0)
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.url, err)
	}
	if rows == nil {
		rows = []model.AggregatedRow{}
	}
	return rows, nil
}

package racecard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxCardBytes bounds a downloaded race card.
const maxCardBytes = 1 << 20

// RemoteConfig holds configuration for fetching race cards over HTTP
type RemoteConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
	APIKey       string
}

// DefaultRemoteConfig returns recommended defaults
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RateLimit:    2.0,
	}
}

// RemoteSource fetches race cards from an upstream race data provider.
type RemoteSource struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	apiKey  string
	logger  *logrus.Logger
}

// NewRemoteSource creates a rate-limited, retrying race card client.
func NewRemoteSource(cfg RemoteConfig, log *logrus.Logger) *RemoteSource {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy
	retryClient.Logger = nil

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &RemoteSource{
		client:  retryClient,
		limiter: rate.NewLimiter(limit, 1),
		apiKey:  cfg.APIKey,
		logger:  log,
	}
}

// IsRemote reports whether location names an HTTP(S) race card.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch downloads and validates a race card.
func (s *RemoteSource) Fetch(ctx context.Context, url string) (*Card, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch race card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch race card: status %d", resp.StatusCode)
	}

	card, err := Decode(io.LimitReader(resp.Body, maxCardBytes))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"url":        url,
		"race_id":    card.Race.RaceID,
		"entrants":   len(card.Entrants),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Race card fetched")
	return card, nil
}

// Close releases idle connections.
func (s *RemoteSource) Close() error {
	s.client.HTTPClient.CloseIdleConnections()
	return nil
}

// retryPolicy retries network errors, 429 and 5xx gateway errors.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, err
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

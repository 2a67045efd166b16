// Package ml provides the HTTP place-probability oracle.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
)

const defaultCircuitCooldown = 30 * time.Second

// HTTPOracle calls the ML service's place predictor over HTTP. Requests are
// rate limited and never retried; repeated failures open a circuit breaker.
type HTTPOracle struct {
	client    *retryablehttp.Client
	limiter   *rate.Limiter
	baseURL   string
	apiKey    string
	modelName string
	logger    *logger.MLLogger

	mu                sync.Mutex
	circuitBreakerMax int
	consecutiveErrors int
	openedAt          time.Time
	cooldown          time.Duration
	lastError         error
	now               func() time.Time
}

// NewHTTPOracle creates an HTTP oracle from the ML oracle configuration.
func NewHTTPOracle(cfg *config.MLOracleConfig, log *logrus.Logger) *HTTPOracle {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	retryClient.RetryMax = 0
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = DefaultModelName
	}
	breakerMax := cfg.CircuitBreakerMax
	if breakerMax <= 0 {
		breakerMax = 5
	}

	return &HTTPOracle{
		client:            retryClient,
		limiter:           rate.NewLimiter(limit, 1),
		baseURL:           cfg.URL,
		apiKey:            cfg.APIKey,
		modelName:         modelName,
		logger:            logger.NewMLLogger(log),
		circuitBreakerMax: breakerMax,
		cooldown:          defaultCircuitCooldown,
		now:               time.Now,
	}
}

// ModelName returns the ML service model queried by the oracle.
func (o *HTTPOracle) ModelName() string {
	return o.modelName
}

type predictRequest struct {
	ModelName string         `json:"model_name"`
	RaceID    string         `json:"race_id"`
	Features  FeaturePayload `json:"features"`
}

type predictResponse struct {
	Probability  *float64 `json:"probability"`
	ModelVersion string   `json:"model_version"`
}

// EstimatePlaceProbability asks the ML service for one entrant's place probability.
func (o *HTTPOracle) EstimatePlaceProbability(ctx context.Context, req PlaceRequest) (float64, error) {
	start := time.Now()
	defer func() { OracleLatency.Observe(time.Since(start).Seconds()) }()

	if err := o.checkCircuit(); err != nil {
		OracleRequestsTotal.WithLabelValues("circuit_open").Inc()
		return 0, err
	}
	if err := o.limiter.Wait(ctx); err != nil {
		OracleRequestsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%w: rate limiter: %v", ErrOracleUnavailable, err)
	}

	body, err := json.Marshal(predictRequest{
		ModelName: o.modelName,
		RaceID:    req.RaceID,
		Features:  NewFeaturePayload(req.Features),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/v1/predict/place", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		o.recordFailure(err)
		OracleRequestsTotal.WithLabelValues("error").Inc()
		o.logger.LogOracleError(req.RaceID, req.HorseNumber(), err.Error())
		return 0, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: status %d: %s", ErrOracleUnavailable, resp.StatusCode, string(msg))
		if resp.StatusCode >= 500 {
			o.recordFailure(err)
		}
		OracleRequestsTotal.WithLabelValues("error").Inc()
		o.logger.LogOracleError(req.RaceID, req.HorseNumber(), err.Error())
		return 0, err
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		OracleRequestsTotal.WithLabelValues("invalid").Inc()
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Probability == nil || math.IsNaN(*out.Probability) || *out.Probability < 0 || *out.Probability > 1 {
		OracleRequestsTotal.WithLabelValues("invalid").Inc()
		return 0, fmt.Errorf("%w: horse %d", ErrInvalidProbability, req.HorseNumber())
	}

	o.recordSuccess()
	OracleRequestsTotal.WithLabelValues("success").Inc()
	o.logger.LogOracleRequest(req.RaceID, req.HorseNumber(), *out.Probability, false, float64(time.Since(start).Milliseconds()))
	return *out.Probability, nil
}

// HealthCheck checks ML service health
func (o *HTTPOracle) HealthCheck(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrOracleUnavailable, resp.StatusCode)
	}
	return nil
}

// BaseURL returns the ML service address.
func (o *HTTPOracle) BaseURL() string {
	return o.baseURL
}

// Close releases idle connections.
func (o *HTTPOracle) Close() error {
	o.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (o *HTTPOracle) checkCircuit() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.consecutiveErrors < o.circuitBreakerMax {
		return nil
	}
	// half-open after the cooldown: let one request through
	if o.now().Sub(o.openedAt) >= o.cooldown {
		o.consecutiveErrors = o.circuitBreakerMax - 1
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCircuitOpen, o.lastError)
}

func (o *HTTPOracle) recordFailure(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.consecutiveErrors++
	o.lastError = err
	if o.consecutiveErrors == o.circuitBreakerMax {
		o.openedAt = o.now()
		o.logger.LogCircuitBreaker(true, o.consecutiveErrors, err.Error())
	}
}

func (o *HTTPOracle) recordSuccess() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.consecutiveErrors >= o.circuitBreakerMax-1 && o.lastError != nil {
		o.logger.LogCircuitBreaker(false, o.consecutiveErrors, o.lastError.Error())
	}
	o.consecutiveErrors = 0
	o.lastError = nil
}

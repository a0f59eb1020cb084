package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/goal-edge/internal/config"
)

const (
	retryWaitMin      = 100 * time.Millisecond
	retryWaitMax      = 2 * time.Second
	circuitBreakerMax = 5
)

// ModelStatus is the training state reported by the ML service
type ModelStatus struct {
	Name      string     `json:"name"`
	Trained   bool       `json:"trained"`
	Version   string     `json:"version"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
}

// HTTPClient queries the ML service's REST endpoints with rate limiting,
// retries and a consecutive-failure circuit breaker.
type HTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *logrus.Logger

	mu                sync.Mutex
	consecutiveErrors int
	lastError         error
}

// NewHTTPClient creates a new HTTP client for the ML service
func NewHTTPClient(cfg config.MLServiceConfig, logger *logrus.Logger) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.RequestTimeout()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = nil

	limit := rate.Inf
	if cfg.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimitPerSecond)
	}

	return &HTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(limit, 1),
		baseURL: cfg.HTTPAddress,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// ModelStatus reports whether the named model is trained. A 404 means the
// service has never trained it.
func (c *HTTPClient) ModelStatus(ctx context.Context, modelName string) (*ModelStatus, error) {
	endpoint := fmt.Sprintf("%s/api/v1/models/%s/status", c.baseURL, url.PathEscape(modelName))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		MLTransportErrorsTotal.WithLabelValues("model_status", "network").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return &ModelStatus{Name: modelName}, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		MLTransportErrorsTotal.WithLabelValues("model_status", "http_error").Inc()
		return nil, fmt.Errorf("%w: status request failed with status %d: %s", ErrMLServiceUnavailable, resp.StatusCode, string(body))
	}

	var status ModelStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: failed to decode status: %v", ErrInvalidResponse, err)
	}
	if status.Name == "" {
		status.Name = modelName
	}
	return &status, nil
}

// HealthCheck checks ML service health
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	resp, err := c.get(ctx, c.baseURL+"/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrMLServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases idle connections
func (c *HTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	if err := c.checkCircuit(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	MLPredictionLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())
	if err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}
	return resp, nil
}

func (c *HTTPClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consecutiveErrors >= circuitBreakerMax {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}
	return nil
}

func (c *HTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors == circuitBreakerMax {
		c.logger.WithError(err).Warnf("Circuit breaker opened after %d consecutive errors", c.consecutiveErrors)
	}
}

func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.lastError = nil
}

// ResetCircuit closes the circuit breaker
func (c *HTTPClient) ResetCircuit() {
	c.recordSuccess()
}

// customRetryPolicy retries network errors, 429 and 5xx gateway errors
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
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
		default:
			return false, nil
		}
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/driveport/driveport/internal/config"
	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/http"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/ratelimit"
)

// retryLogger adapts the structured logger to the retryablehttp
// LeveledLogger interface. Info and debug chatter is suppressed.
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Interface("details", keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Interface("details", keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client talks to the platform: document collections, storage buckets, and
// account endpoints.
//
// JSON requests go through a retrying client; blob streams use the plain
// client because their bodies are not replayable.
type Client struct {
	httpClient   *nethttp.Client // retry-wrapped, JSON endpoints
	streamClient *nethttp.Client // plain, blob streaming
	cfg          *config.PlatformConfig
	baseURL      string
	limiter      *ratelimit.RateLimiter
	logger       *logging.Logger
}

// NewClient creates a platform client from the given connection settings.
func NewClient(cfg *config.PlatformConfig, logger *logging.Logger) (*Client, error) {
	base, err := http.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	stream, err := http.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure stream client: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = constants.MaxRetries
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{logger: logger}

	return &Client{
		httpClient:   retryClient.StandardClient(),
		streamClient: stream,
		cfg:          cfg,
		baseURL:      strings.TrimSuffix(cfg.EndpointURL, "/"),
		limiter:      ratelimit.NewDocStoreRateLimiter(),
		logger:       logger,
	}, nil
}

// Config returns the connection settings behind this client.
func (c *Client) Config() *config.PlatformConfig {
	return c.cfg
}

// doRequest performs a rate-limited JSON request with project and key headers.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*nethttp.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Project", c.cfg.ProjectID)
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Str("method", method).Str("path", path).Err(err).Msg("API call failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == nethttp.StatusTooManyRequests {
		c.logger.Warn().
			Str("path", path).
			Str("retry_after", resp.Header.Get("Retry-After")).
			Msg("Throttled by platform")
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API call")

	return resp, nil
}

// decode reads a 2xx JSON response into out, or returns the status error.
func decode(resp *nethttp.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

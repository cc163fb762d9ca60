package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// PublishableKeyHeader carries the storefront's publishable API key.
const PublishableKeyHeader = "x-publishable-api-key"

// StatusError is a non-2xx response from a backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status of err if it is a StatusError, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsRejection reports whether err is an explicit 4xx rejection rather than a
// transport or server failure.
func IsRejection(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

// Options configures a Client.
type Options struct {
	Name           string
	BaseURL        string
	PublishableKey string
	Timeout        time.Duration
	// HealthyStatuses are error statuses the breaker counts as successes.
	HealthyStatuses []int
	// HTTPClient overrides the instrumented default, mainly for tests.
	HTTPClient *http.Client
}

// Client is a JSON-over-HTTP client guarded by a circuit breaker.
type Client struct {
	baseURL        string
	publishableKey string
	http           *http.Client
	breaker        *gobreaker.CircuitBreaker[*http.Response]
	logger         zerolog.Logger
}

// New creates a backend client.
func New(opts Options, logger zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger = logger.With().Str("backend", opts.Name).Logger()

	healthy := make(map[int]bool, len(opts.HealthyStatuses))
	for _, status := range opts.HealthyStatuses {
		healthy[status] = true
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client rejections say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || IsRejection(err) || healthy[StatusCode(err)]
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		publishableKey: opts.PublishableKey,
		http:           httpClient,
		breaker:        breaker,
		logger:         logger,
	}
}

// Do sends a JSON request and decodes the JSON response into out (if non-nil).
// Non-2xx responses are returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.publishableKey != "" {
		req.Header.Set(PublishableKeyHeader, c.publishableKey)
	}
	applyCredentials(ctx, req)

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 300 {
			defer resp.Body.Close()
			return nil, &StatusError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
		}
		return resp, nil
	})
	if err != nil {
		event := c.logger.Debug()
		if !IsRejection(err) {
			event = c.logger.Warn()
		}
		event.Err(err).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("backend request failed")

		var se *StatusError
		if errors.As(err, &se) {
			return se
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// readMessage extracts a message from an error body, tolerating non-JSON bodies.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

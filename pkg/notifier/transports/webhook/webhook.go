// Package webhook delivers JSON payloads to an HTTP endpoint with bounded
// retries and exponential backoff.
//
// Each Deliver call makes up to three POST attempts. A response in [200,300)
// is success; network errors, timeouts and any other status are retried after
// baseDelay*2^(k-1) for retry k. Deliveries are independent: there is no
// queue, batching or state shared between calls apart from the optional
// circuit breaker.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// DefaultAttempts is the number of POSTs made per Deliver, the first included.
	DefaultAttempts = 3

	// DefaultBaseDelay is the wait before the first retry; it doubles per retry.
	DefaultBaseDelay = 500 * time.Millisecond

	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 10 * time.Second

	userAgent = "gchat-notifier-go/v1"

	// maxDrainBytes caps how much of a response body is read before closing.
	maxDrainBytes = 64 << 10
)

// StatusError is returned for responses outside [200,300).
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook: HTTP %s", e.Status)
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the HTTP client. Its Timeout bounds each attempt.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout sets the per-attempt HTTP timeout (default: 10s).
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithAttempts sets the maximum number of attempts (default: 3).
func WithAttempts(n uint) Option {
	return func(t *Transport) {
		if n > 0 {
			t.attempts = n
		}
	}
}

// WithBaseDelay sets the delay before the first retry (default: 500ms).
func WithBaseDelay(d time.Duration) Option {
	return func(t *Transport) {
		if d >= 0 {
			t.baseDelay = d
		}
	}
}

// WithHeaders adds headers to every request. Content-Type cannot be overridden.
func WithHeaders(h map[string]string) Option {
	return func(t *Transport) { t.headers = h }
}

// WithLogger sets the logger used for per-attempt diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l.Named("webhook")
		}
	}
}

// WithCircuitBreaker wraps every delivery in a circuit breaker. While the
// breaker is open, Deliver fails immediately with gobreaker.ErrOpenState and
// makes no HTTP call. A whole Deliver call (all of its attempts) counts as one
// request to the breaker.
func WithCircuitBreaker(settings gobreaker.Settings) Option {
	return func(t *Transport) {
		if settings.Name == "" {
			settings.Name = "webhook"
		}
		t.breaker = gobreaker.NewCircuitBreaker(settings)
	}
}

// WithOnBackoff registers a callback invoked before each retry sleep with the
// 1-based number of the attempt that just failed and the computed delay.
func WithOnBackoff(fn func(attempt int, delay time.Duration)) Option {
	return func(t *Transport) { t.onBackoff = fn }
}

// Transport POSTs payloads to webhook URLs. Safe for concurrent use.
type Transport struct {
	client    *http.Client
	attempts  uint
	baseDelay time.Duration
	headers   map[string]string
	logger    *zap.Logger
	breaker   *gobreaker.CircuitBreaker
	onBackoff func(attempt int, delay time.Duration)
}

// New creates a Transport.
func New(opts ...Option) *Transport {
	t := &Transport{
		client:    &http.Client{Timeout: DefaultTimeout},
		attempts:  DefaultAttempts,
		baseDelay: DefaultBaseDelay,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Deliver serializes payload as JSON and POSTs it to target, retrying on
// failure. It returns nil on success and the last attempt's error otherwise.
func (t *Transport) Deliver(ctx context.Context, target string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	if t.breaker == nil {
		return t.deliverWithRetry(ctx, target, body)
	}

	_, err = t.breaker.Execute(func() (interface{}, error) {
		return nil, t.deliverWithRetry(ctx, target, body)
	})
	return err
}

// Backoff returns the delay slept after the given failed attempt (1-based).
func (t *Transport) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return t.baseDelay * time.Duration(1<<(attempt-1))
}

func (t *Transport) deliverWithRetry(ctx context.Context, target string, body []byte) error {
	var (
		attempt int
		lastErr error
	)

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(t.attempts),
		// Computed from our own attempt counter so the schedule does not
		// depend on how the retry library numbers its iterations.
		retry.DelayType(func(_ uint, _ error, _ retry.DelayContext) time.Duration {
			d := t.Backoff(attempt)
			if t.onBackoff != nil {
				t.onBackoff(attempt, d)
			}
			return d
		}),
	)

	err := r.Do(func() error {
		attempt++
		err := t.post(ctx, target, body)
		if err != nil {
			lastErr = err
			t.logger.Debug("webhook attempt failed",
				zap.Int("attempt", attempt),
				zap.Uint("max_attempts", t.attempts),
				zap.String("url", RedactURL(target)),
				zap.Error(err))
		}
		return err
	})
	if err == nil {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return err
}

func (t *Transport) post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// RedactURL drops the query and user info of a webhook URL for logging.
// Chat webhook URLs carry their credentials in the query string.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid-url]"
	}
	u.User = nil
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	u.Fragment = ""
	return u.String()
}

// client.go implements the capture pipeline: admission, normalization,
// context merge, fingerprinting, scrubbing, filtering, rendering and dispatch.

package notifier

import (
	"context"
	"fmt"
	"maps"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier/transports/webhook"
)

// Tags added from an OpenTelemetry span found in the capture context.
const (
	TagTraceID = "trace_id"
	TagSpanID  = "span_id"
)

// Client captures events and delivers them. Capture methods never block on
// network I/O, never panic and never report failures to the caller; outcomes
// are visible only through logs and metrics.
//
// A nil *Client is usable: every capture is dropped as not initialized.
type Client struct {
	opts       Options
	logger     *zap.Logger
	limiter    *RateLimiter
	renderer   Renderer
	metrics    *metrics
	dispatcher *dispatcher
	closed     atomic.Bool

	// limitLog throttles "rate limit exceeded" logs during bursts.
	limitLog rate.Sometimes
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger := opts.logger()

	limit := opts.MaxEventsPerMinute
	switch {
	case limit == 0:
		limit = DefaultMaxEventsPerMinute
	case limit < 0:
		limit = 0
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = EventRenderer
	}

	transport := opts.Transport
	if transport == nil {
		transport = webhook.New(webhook.WithLogger(logger))
	}

	maxInFlight := opts.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	m := newMetrics(opts.Registerer)

	c := &Client{
		opts:     opts,
		logger:   logger,
		limiter:  NewRateLimiter(limit, rateWindow),
		renderer: renderer,
		metrics:  m,
		dispatcher: newDispatcher(dispatcherConfig{
			transport:   transport,
			url:         opts.WebhookURL,
			maxInFlight: maxInFlight,
			logger:      logger,
			metrics:     m,
		}),
		limitLog: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}

	logger.Debug("initialized",
		zap.String("service", opts.Service),
		zap.String("environment", opts.Environment),
		zap.Int("max_events_per_minute", limit))

	return c, nil
}

// CaptureException reports err. A nil err is ignored. req may be nil; its
// headers are redacted before use.
func (c *Client) CaptureException(ctx context.Context, err error, req *RequestInfo) {
	c.captureError(ctx, "exception", err, req, LevelError)
}

// CaptureLatency reports a latency sample with level LevelLatency.
func (c *Client) CaptureLatency(ctx context.Context, sample LatencySample) {
	if !c.admit("latency") {
		return
	}

	extra := map[string]any{
		"endpoint":   sample.Endpoint,
		"durationMs": sample.DurationMs,
	}
	if sample.ThresholdMs > 0 {
		extra["thresholdMs"] = sample.ThresholdMs
	}

	c.process(ctx, Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Level:     LevelLatency,
		Message:   fmt.Sprintf("Latency alert for %s: %dms", sample.Endpoint, sample.DurationMs),
		Extra:     extra,
	})
}

// CaptureMessage reports a plain message. Unknown levels are reported as LevelInfo.
func (c *Client) CaptureMessage(ctx context.Context, level Level, message string) {
	if !c.admit("message") {
		return
	}
	if !level.Valid() {
		level = LevelInfo
	}

	c.process(ctx, Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Level:     level,
		Message:   message,
	})
}

// Flush waits until no delivery is running or ctx is done.
func (c *Client) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.dispatcher.wait(ctx)
}

// Close stops accepting captures and waits for in-flight deliveries.
func (c *Client) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	c.closed.Store(true)
	c.dispatcher.close()
	return c.Flush(ctx)
}

func (c *Client) captureError(ctx context.Context, kind string, raw any, req *RequestInfo, level Level) {
	if !c.admit(kind) {
		return
	}

	event, ok := Normalize(raw, req)
	if !ok {
		c.drop(ReasonNotAnError, zap.String("type", fmt.Sprintf("%T", raw)))
		return
	}
	event.Level = level
	if level == LevelFatal && c.opts.AttachRuntime {
		event.Extra = map[string]any{ExtraRuntime: CaptureRuntimeState(processStart)}
	}

	c.process(ctx, *event)
}

// admit runs the initialization, lifecycle and rate limit checks. It runs
// before any other work so rejected captures stay cheap.
func (c *Client) admit(kind string) bool {
	if c == nil {
		logNotInitialized()
		return false
	}

	c.metrics.captured.WithLabelValues(kind).Inc()

	if c.closed.Load() {
		c.drop(ReasonClosed)
		return false
	}

	if !c.limiter.Allow() {
		c.count(ReasonRateLimit)
		c.limitLog.Do(func() {
			c.logger.Debug("rate limit exceeded, dropping events")
		})
		return false
	}
	return true
}

func (c *Client) process(ctx context.Context, event Event) {
	event = c.merge(ctx, event)
	event.Fingerprint = EventFingerprint(event)

	if c.opts.ScrubMessages {
		event = ScrubEvent(event)
	}

	if c.opts.BeforeSend != nil {
		processed, err := c.beforeSend(event.Clone())
		if err != nil || processed == nil {
			c.drop(ReasonBeforeSend, zap.String("event_id", event.ID), zap.Error(err))
			return
		}
		event = processed.Clone()
	}

	payload, err := c.render(event)
	if err != nil {
		c.drop(ReasonRenderError, zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	if reason := c.dispatcher.dispatch(ctx, event, payload); reason != "" {
		c.drop(reason, zap.String("event_id", event.ID))
	}
}

// beforeSend and render run user code; a panic there drops the event
// instead of reaching the caller.
func (c *Client) beforeSend(event Event) (processed *Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("before send panic: %v", r)
		}
	}()
	return c.opts.BeforeSend(event), nil
}

func (c *Client) render(event Event) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return c.renderer.Render(event)
}

// merge layers context onto event: event-local tags/extra first, then trace
// ids from ctx, then the active scope, then the configured identity.
func (c *Client) merge(ctx context.Context, event Event) Event {
	tags := make(map[string]string, len(event.Tags))
	maps.Copy(tags, event.Tags)
	extra := make(map[string]any, len(event.Extra))
	maps.Copy(extra, event.Extra)

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			tags[TagTraceID] = sc.TraceID().String()
			tags[TagSpanID] = sc.SpanID().String()
		}
	}

	scope := CurrentScope(ctx).Serialize()
	maps.Copy(tags, scope.Tags)
	maps.Copy(extra, scope.Extra)

	event.Tags = tags
	event.Extra = extra

	if c.opts.Environment != "" {
		event.Environment = c.opts.Environment
	}
	if c.opts.Service != "" {
		event.Service = c.opts.Service
	}
	if c.opts.Release != "" {
		event.Release = c.opts.Release
	}
	return event
}

func (c *Client) drop(reason DropReason, fields ...zap.Field) {
	c.count(reason)
	c.logger.Debug("event dropped", append(fields, zap.String("reason", string(reason)))...)
}

func (c *Client) count(reason DropReason) {
	c.metrics.dropped.WithLabelValues(string(reason)).Inc()
	if c.opts.OnDropped == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("OnDropped panicked", zap.Any("panic", r))
		}
	}()
	c.opts.OnDropped(reason)
}

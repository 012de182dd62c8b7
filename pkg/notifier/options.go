// options.go defines Client configuration and its validation.

package notifier

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// DefaultMaxEventsPerMinute is used when Options.MaxEventsPerMinute is zero.
	DefaultMaxEventsPerMinute = 30

	// DefaultMaxInFlight bounds concurrent deliveries when Options.MaxInFlight is zero.
	DefaultMaxInFlight = 100

	rateWindow = time.Minute
)

var (
	// ErrMissingWebhookURL is returned by New when Options.WebhookURL is empty.
	ErrMissingWebhookURL = errors.New("notifier: webhook URL is required")

	// ErrInvalidWebhookURL is returned by New for URLs that are not absolute http(s) URLs.
	ErrInvalidWebhookURL = errors.New("notifier: invalid webhook URL")
)

// Options configures a Client.
type Options struct {
	// WebhookURL receives every payload. Required.
	WebhookURL string

	Service     string
	Environment string
	Release     string

	// Debug enables a development logger when Logger is nil.
	Debug bool

	// MaxEventsPerMinute caps admitted events. Zero means
	// DefaultMaxEventsPerMinute; a negative value rejects everything.
	MaxEventsPerMinute int

	// ScrubMessages redacts credentials and emails from every event before
	// BeforeSend runs. See ScrubEvent.
	ScrubMessages bool

	// BeforeSend may modify or discard an event. It receives a private copy;
	// returning nil drops the event.
	BeforeSend func(event Event) *Event

	// Renderer builds the payload. Defaults to EventRenderer.
	Renderer Renderer

	// Transport delivers payloads. Defaults to a webhook transport.
	Transport Transport

	// MaxInFlight bounds concurrent deliveries. Zero means DefaultMaxInFlight.
	MaxInFlight int

	// AttachRuntime adds a RuntimeState under ExtraRuntime to fatal events.
	AttachRuntime bool

	// OnDropped is called for every event dropped before delivery.
	OnDropped func(reason DropReason)

	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

func (o Options) validate() error {
	if o.WebhookURL == "" {
		return ErrMissingWebhookURL
	}
	u, err := url.Parse(o.WebhookURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidWebhookURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidWebhookURL)
	}
	return nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger.Named("notifier")
	}
	if o.Debug {
		if l, err := zap.NewDevelopment(); err == nil {
			return l.Named("notifier")
		}
	}
	return zap.NewNop()
}

// metrics.go defines the Prometheus collectors of a Client.

package notifier

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// DropReason says why an event never reached the transport.
type DropReason string

const (
	// ReasonNotInitialized: a capture ran before Init or on a nil Client.
	ReasonNotInitialized DropReason = "not_initialized"

	// ReasonClosed: a capture ran after Close.
	ReasonClosed DropReason = "closed"

	// ReasonRateLimit: the per-minute event budget was exhausted.
	ReasonRateLimit DropReason = "ratelimit"

	// ReasonNotAnError: the captured value was nil or not an error.
	ReasonNotAnError DropReason = "not_an_error"

	// ReasonBeforeSend: BeforeSend returned nil or panicked.
	ReasonBeforeSend DropReason = "before_send"

	// ReasonRenderError: the Renderer failed or panicked.
	ReasonRenderError DropReason = "render_error"

	// ReasonQueueOverflow: MaxInFlight deliveries were already running.
	ReasonQueueOverflow DropReason = "queue_overflow"
)

type metrics struct {
	captured   *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	inFlight   prometheus.Gauge
}

// newMetrics registers the collectors with reg. Clients built on the same
// registry share collectors, so replacing the default client with Init keeps
// counting into the same series.
func newMetrics(reg prometheus.Registerer) *metrics {
	// Unregistered collectors still count; they are just never scraped.
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &metrics{
		captured: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifier_events_captured_total",
			Help: "Capture calls received, by kind.",
		}, []string{"kind"})),

		dropped: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifier_events_dropped_total",
			Help: "Events dropped before delivery, by reason.",
		}, []string{"reason"})),

		deliveries: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifier_deliveries_total",
			Help: "Finished deliveries, by outcome (success, failure).",
		}, []string{"outcome"})),

		inFlight: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifier_deliveries_in_flight",
			Help: "Deliveries currently running.",
		})),
	}
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one. Any other registration error leaves
// c counting unregistered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	return c
}

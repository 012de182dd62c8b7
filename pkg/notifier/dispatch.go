// dispatch.go delivers rendered payloads in the background with a bounded
// number of deliveries in flight.

package notifier

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type dispatcherConfig struct {
	transport   Transport
	url         string
	maxInFlight int
	logger      *zap.Logger
	metrics     *metrics
}

// dispatcher starts one goroutine per delivery. At most maxInFlight run at
// once; beyond that payloads are dropped rather than queued.
//
// active and idle are guarded by mu so that a delivery is either counted
// before close and drained by wait, or rejected.
type dispatcher struct {
	transport   Transport
	url         string
	maxInFlight int
	logger      *zap.Logger
	metrics     *metrics

	mu     sync.Mutex
	closed bool
	active int
	// idle is closed whenever active is zero.
	idle chan struct{}
}

func newDispatcher(cfg dispatcherConfig) *dispatcher {
	idle := make(chan struct{})
	close(idle)
	return &dispatcher{
		transport:   cfg.transport,
		url:         cfg.url,
		maxInFlight: cfg.maxInFlight,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		idle:        idle,
	}
}

// dispatch hands payload to the transport and returns immediately. The
// delivery keeps ctx values but ignores its cancellation. It returns the
// reason the payload was not accepted, or "" when a delivery was started.
func (d *dispatcher) dispatch(ctx context.Context, event Event, payload any) DropReason {
	d.mu.Lock()
	switch {
	case d.closed:
		d.mu.Unlock()
		return ReasonClosed
	case d.active >= d.maxInFlight:
		d.mu.Unlock()
		return ReasonQueueOverflow
	}
	if d.active == 0 {
		d.idle = make(chan struct{})
	}
	d.active++
	d.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	deliverCtx := context.WithoutCancel(ctx)

	d.metrics.inFlight.Inc()
	go func() {
		defer d.done()
		d.deliver(deliverCtx, event, payload)
	}()
	return ""
}

func (d *dispatcher) done() {
	d.metrics.inFlight.Dec()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.active--
	if d.active == 0 {
		close(d.idle)
	}
}

func (d *dispatcher) deliver(ctx context.Context, event Event, payload any) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("transport panic: %v", r)
			}
		}()
		err = d.transport.Deliver(ctx, d.url, payload)
	}()

	if err != nil {
		d.metrics.deliveries.WithLabelValues("failure").Inc()
		d.logger.Debug("failed to deliver event",
			zap.String("event_id", event.ID),
			zap.String("level", string(event.Level)),
			zap.Error(err))
		return
	}

	d.metrics.deliveries.WithLabelValues("success").Inc()
	d.logger.Debug("event delivered",
		zap.String("event_id", event.ID),
		zap.String("fingerprint", event.Fingerprint))
}

// close rejects every later dispatch. Deliveries already started keep running.
func (d *dispatcher) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// wait blocks until no delivery is running or ctx is done.
func (d *dispatcher) wait(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

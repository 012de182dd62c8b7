// global.go holds the process-wide default Client used by the package-level
// capture functions.

package notifier

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

var defaultClient atomic.Pointer[Client]

// Init builds a Client from opts and installs it as the process-wide default.
// A previously installed client is replaced but not closed.
func Init(opts Options) error {
	c, err := New(opts)
	if err != nil {
		return err
	}
	defaultClient.Store(c)
	return nil
}

// CurrentClient returns the default client, or nil before Init.
func CurrentClient() *Client {
	return defaultClient.Load()
}

// CaptureException reports err through the default client.
func CaptureException(ctx context.Context, err error, req *RequestInfo) {
	CurrentClient().CaptureException(ctx, err, req)
}

// CaptureLatency reports a latency sample through the default client.
func CaptureLatency(ctx context.Context, sample LatencySample) {
	CurrentClient().CaptureLatency(ctx, sample)
}

// CaptureMessage reports a message through the default client.
func CaptureMessage(ctx context.Context, level Level, message string) {
	CurrentClient().CaptureMessage(ctx, level, message)
}

// Recover captures a panic through the default client. Must be deferred directly.
func Recover(ctx context.Context) any {
	r := recover()
	if r == nil {
		return nil
	}
	CurrentClient().CapturePanic(ctx, r, nil)
	return r
}

// Flush waits for the default client's in-flight deliveries.
func Flush(ctx context.Context) error {
	return CurrentClient().Flush(ctx)
}

// Close closes the default client and uninstalls it.
func Close(ctx context.Context) error {
	c := defaultClient.Swap(nil)
	return c.Close(ctx)
}

func logNotInitialized() {
	zap.L().Warn("notifier: capture called before Init, dropping event",
		zap.String("reason", string(ReasonNotInitialized)))
}

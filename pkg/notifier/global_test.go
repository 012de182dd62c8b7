package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobal_BeforeInit(t *testing.T) {
	require.Nil(t, CurrentClient())

	assert.NotPanics(t, func() {
		CaptureException(context.Background(), errors.New("boom"), nil)
		CaptureLatency(context.Background(), LatencySample{Endpoint: "x", DurationMs: 1})
		CaptureMessage(context.Background(), LevelInfo, "hi")
	})
	assert.NoError(t, Flush(context.Background()))
}

func TestGlobal_InitCaptureClose(t *testing.T) {
	transport := &captureTransport{}
	require.NoError(t, Init(Options{WebhookURL: testWebhookURL, Service: "svc", Transport: transport}))
	t.Cleanup(func() { _ = Close(context.Background()) })

	require.NotNil(t, CurrentClient())

	CaptureException(context.Background(), errors.New("global boom"), nil)
	CaptureMessage(context.Background(), LevelWarning, "careful")
	func() {
		defer Recover(context.Background())
		panic("global panic")
	}()
	require.NoError(t, Flush(context.Background()))

	events := transport.events(t)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, "svc", e.Service)
	}

	require.NoError(t, Close(context.Background()))
	assert.Nil(t, CurrentClient())
}

func TestGlobal_InitRejectsInvalidOptions(t *testing.T) {
	assert.ErrorIs(t, Init(Options{}), ErrMissingWebhookURL)
	assert.Nil(t, CurrentClient())
}

func TestGlobal_InitTwiceWithSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	transport := &captureTransport{}
	opts := Options{WebhookURL: testWebhookURL, Transport: transport, Registerer: reg}
	t.Cleanup(func() { _ = Close(context.Background()) })

	require.NoError(t, Init(opts))
	first := CurrentClient()
	CaptureMessage(context.Background(), LevelInfo, "from first")
	require.NoError(t, Flush(context.Background()))

	require.NotPanics(t, func() {
		require.NoError(t, Init(opts))
	})
	require.NotSame(t, first, CurrentClient())

	CaptureMessage(context.Background(), LevelInfo, "from second")
	require.NoError(t, Flush(context.Background()))

	assert.Len(t, transport.events(t), 2)
	assert.Equal(t, 2.0, gatherCounters(t, reg)["notifier_events_captured_total"],
		"both clients count into the same series")
}

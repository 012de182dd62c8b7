// Package stderr provides a transport that prints payloads instead of sending
// them. Useful during development to see what would reach the webhook.
package stderr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/transports/webhook"
)

// Option configures the stderr transport.
type Option func(*stderrTransport)

// WithCompact prints single-line JSON instead of indented JSON.
func WithCompact() Option {
	return func(t *stderrTransport) {
		t.compact = true
	}
}

// WithWriter replaces os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(t *stderrTransport) {
		if w != nil {
			t.out = w
		}
	}
}

type stderrTransport struct {
	mu      sync.Mutex
	out     io.Writer
	compact bool
	now     func() time.Time
}

// New creates a transport that writes payloads to stderr.
func New(opts ...Option) notifier.Transport {
	t := &stderrTransport{
		out: os.Stderr,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Deliver prints a header line followed by the JSON payload.
// Format: [NOTIFIER] <timestamp> POST <redacted url>
func (t *stderrTransport) Deliver(_ context.Context, url string, payload any) error {
	var (
		body []byte
		err  error
	)
	if t.compact {
		body, err = json.Marshal(payload)
	} else {
		body, err = json.MarshalIndent(payload, "        ", "  ")
	}
	if err != nil {
		return fmt.Errorf("stderr: marshal payload: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	timestamp := t.now().Format(time.RFC3339)
	if _, err := fmt.Fprintf(t.out, "[NOTIFIER] %s POST %s\n", timestamp, webhook.RedactURL(url)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(t.out, "        %s\n", body)
	return err
}

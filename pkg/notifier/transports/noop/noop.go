// Package noop provides a transport that discards all payloads.
// Useful for tests and for disabling delivery without removing capture calls.
package noop

import (
	"context"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

type noopTransport struct{}

// New creates a transport whose Deliver always succeeds and sends nothing.
func New() notifier.Transport {
	return noopTransport{}
}

// Deliver discards the payload and returns nil.
func (noopTransport) Deliver(context.Context, string, any) error {
	return nil
}

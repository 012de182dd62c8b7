// Package multi provides a transport that fans out to multiple transports.
// All transports receive every payload; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

type multiTransport struct {
	transports []notifier.Transport
}

// New creates a transport that delivers to every given transport in order.
// Errors are aggregated via errors.Join, so delivery succeeds only when every
// transport succeeds.
func New(transports ...notifier.Transport) notifier.Transport {
	return &multiTransport{
		transports: transports,
	}
}

// Deliver sends the payload to all transports, even if some fail.
func (m *multiTransport) Deliver(ctx context.Context, url string, payload any) error {
	var errs []error
	for _, t := range m.transports {
		if err := t.Deliver(ctx, url, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

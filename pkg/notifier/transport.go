// transport.go defines the delivery and rendering collaborators of the client.

package notifier

import "context"

// Transport delivers a rendered payload to a URL. A nil error means the
// payload was accepted; otherwise the error is the last failure seen.
// Implementations must be safe for concurrent use, and each Deliver call is
// independent of every other.
type Transport interface {
	Deliver(ctx context.Context, url string, payload any) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string, payload any) error

// Deliver calls f.
func (f TransportFunc) Deliver(ctx context.Context, url string, payload any) error {
	return f(ctx, url, payload)
}

// Renderer maps an Event to the payload handed to the Transport.
// The payload must be JSON serializable.
type Renderer interface {
	Render(event Event) (any, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(event Event) (any, error)

// Render calls f.
func (f RendererFunc) Render(event Event) (any, error) {
	return f(event)
}

// EventRenderer sends the Event itself as the payload.
var EventRenderer Renderer = RendererFunc(func(event Event) (any, error) {
	return event, nil
})

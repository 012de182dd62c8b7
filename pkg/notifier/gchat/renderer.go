// Package gchat renders notifier events as Google Chat cardsV2 messages.
//
// Latency events become a latency card; every other level becomes an error
// card. User-supplied text is HTML-escaped because card text is rendered as
// Google Chat's limited HTML.
package gchat

import (
	"time"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

// Option configures card rendering.
type Option func(*config)

type config struct {
	location *time.Location
	linkText string
	linkURL  string
}

// WithLocation sets the time zone for rendered timestamps (default: UTC).
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLinkButton appends a button opening url, e.g. a dashboard or log search.
func WithLinkButton(text, url string) Option {
	return func(c *config) {
		c.linkText = text
		c.linkURL = url
	}
}

func newConfig(opts []Option) config {
	c := config{location: time.UTC, linkText: "Open"}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Renderer implements notifier.Renderer.
type Renderer struct {
	opts []Option
}

var _ notifier.Renderer = (*Renderer)(nil)

// NewRenderer creates a Renderer applying opts to every card.
func NewRenderer(opts ...Option) *Renderer {
	return &Renderer{opts: opts}
}

// Render picks the card for the event's level.
func (r *Renderer) Render(event notifier.Event) (any, error) {
	if event.Level == notifier.LevelLatency {
		return LatencyCard(event, r.opts...), nil
	}
	return ErrorCard(event, r.opts...), nil
}

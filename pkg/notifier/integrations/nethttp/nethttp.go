// Package nethttp captures panics and slow requests from net/http handlers.
//
// Every request runs in its own notifier scope, tagged with http.method and
// http.url, so events captured by handlers through r.Context() carry only
// that request's context.
package nethttp

import (
	"maps"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

// Scope tags set for every request.
const (
	TagMethod = "http.method"
	TagURL    = "http.url"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	repanic          bool
	latencyThreshold time.Duration
	taggers          []func(r *http.Request, scope *notifier.Scope)
	params           func(r *http.Request) map[string]string
}

// WithRepanic re-panics after capturing, for stacks where an outer
// middleware owns panic handling. By default the middleware answers 500.
func WithRepanic() Option {
	return func(c *config) { c.repanic = true }
}

// WithLatencyThreshold captures a latency event for requests slower than d.
func WithLatencyThreshold(d time.Duration) Option {
	return func(c *config) { c.latencyThreshold = d }
}

// WithTagger registers fn to add tags right before an event is captured,
// after the handler ran, so routing information is available.
func WithTagger(fn func(r *http.Request, scope *notifier.Scope)) Option {
	return func(c *config) {
		if fn != nil {
			c.taggers = append(c.taggers, fn)
		}
	}
}

// WithParams sets how route parameters are extracted for RequestInfo.Params.
func WithParams(fn func(r *http.Request) map[string]string) Option {
	return func(c *config) { c.params = fn }
}

// Middleware returns net/http middleware reporting through client.
func Middleware(client *notifier.Client, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := notifier.NewIsolatedContext(r.Context())
			scope := notifier.CurrentScope(ctx)
			scope.SetTag(TagMethod, r.Method)
			scope.SetTag(TagURL, r.URL.RequestURI())
			r = r.WithContext(ctx)

			start := time.Now()
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// net/http uses this panic to abort a response silently.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				cfg.tag(r, scope)
				client.CapturePanic(ctx, rec, cfg.requestInfo(r))

				if cfg.repanic {
					panic(rec)
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)

			if cfg.latencyThreshold > 0 {
				if elapsed := time.Since(start); elapsed > cfg.latencyThreshold {
					cfg.tag(r, scope)
					client.CaptureLatency(ctx, notifier.LatencySample{
						Endpoint:    r.Method + " " + r.URL.Path,
						DurationMs:  elapsed.Milliseconds(),
						ThresholdMs: cfg.latencyThreshold.Milliseconds(),
					})
				}
			}
		})
	}
}

// CaptureRequestError reports err with the request's context and metadata.
// Use it from handlers that turn errors into responses themselves.
func CaptureRequestError(client *notifier.Client, r *http.Request, err error) {
	client.CaptureException(r.Context(), err, RequestInfoFrom(r))
}

// RequestInfoFrom extracts redacted request metadata. The body is never
// read; only its presence is recorded.
func RequestInfoFrom(r *http.Request) *notifier.RequestInfo {
	info := &notifier.RequestInfo{
		Method:  r.Method,
		URL:     r.URL.RequestURI(),
		IP:      ClientIP(r),
		Headers: notifier.RedactHTTPHeader(r.Header),
	}

	if q := r.URL.Query(); len(q) > 0 {
		info.Query = make(map[string]string, len(q))
		for k, v := range q {
			info.Query[k] = strings.Join(v, ",")
		}
	}

	if r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0 {
		info.Body = notifier.BodyPresentMarker
	}
	return info
}

// ClientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (c *config) tag(r *http.Request, scope *notifier.Scope) {
	for _, fn := range c.taggers {
		fn(r, scope)
	}
}

func (c *config) requestInfo(r *http.Request) *notifier.RequestInfo {
	info := RequestInfoFrom(r)
	if c.params != nil {
		info.Params = maps.Clone(c.params(r))
	}
	return info
}

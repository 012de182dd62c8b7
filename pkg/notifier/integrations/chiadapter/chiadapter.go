// Package chiadapter adapts the nethttp middleware to go-chi routers.
//
// On top of nethttp it tags events with the matched route pattern
// (http.route), the chi request id (request_id) when middleware.RequestID
// runs earlier in the chain, and reports URL parameters as request params.
package chiadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/integrations/nethttp"
)

const (
	// TagRoute holds the matched chi route pattern, e.g. /users/{id}.
	TagRoute = "http.route"

	// TagRequestID holds the id set by chi's middleware.RequestID.
	TagRequestID = "request_id"
)

// Middleware returns chi middleware reporting through client. opts are
// passed through to nethttp.Middleware.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(chiadapter.Middleware(client))
func Middleware(client *notifier.Client, opts ...nethttp.Option) func(http.Handler) http.Handler {
	all := append([]nethttp.Option{
		nethttp.WithTagger(tagRoute),
		nethttp.WithParams(URLParams),
	}, opts...)
	return nethttp.Middleware(client, all...)
}

// URLParams returns the chi URL parameters matched for r.
func URLParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}

func tagRoute(r *http.Request, scope *notifier.Scope) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			scope.SetTag(TagRoute, pattern)
		}
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		scope.SetTag(TagRequestID, id)
	}
}

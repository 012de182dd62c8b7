// Package notifier reports errors, panics and latency samples from a Go
// service to a chat webhook.
//
// # Core Components
//
//   - Event: the canonical record of one capture (level, message, error, request, tags, extra)
//   - Scope: per-request tags and extras carried on context.Context
//   - Client: the capture pipeline (admission, normalization, merge, fingerprint, scrub, filter, render, dispatch)
//   - Renderer: maps an Event to a payload (see package gchat)
//   - Transport: delivers a payload (see packages webhook, stderr, multi, noop)
//
// # Quick Start
//
//	err := notifier.Init(notifier.Options{
//	    WebhookURL:  os.Getenv("NOTIFIER_WEBHOOK_URL"),
//	    Service:     "api",
//	    Environment: "prod",
//	    Renderer:    gchat.NewRenderer(),
//	})
//	defer notifier.Close(context.Background())
//
//	notifier.WithScope(ctx, func(ctx context.Context, scope *notifier.Scope) {
//	    scope.SetTag("user", userID)
//	    notifier.CaptureException(ctx, err, nil)
//	})
//
// # Context Propagation
//
// Scopes travel on context.Context. RunIsolated and NewIsolatedContext attach
// a new scope; everything that receives the derived context, including
// goroutines, sees that scope, and nothing outside it does. Capturing with a
// context that has no scope uses an empty one.
//
// # Design Principles
//
//   - Capture calls never fail, block on the network, or panic: every problem is
//     a dropped event, visible through debug logs and metrics only
//   - Admission control runs first, so rejected events cost almost nothing
//   - Delivery is fire-and-forget with a bounded number of deliveries in flight;
//     Flush and Close drain them on shutdown
package notifier

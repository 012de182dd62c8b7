package noop

import (
	"context"
	"testing"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

func TestNoop_ImplementsTransport(t *testing.T) {
	var _ notifier.Transport = New()
}

func TestNoop_AlwaysSucceeds(t *testing.T) {
	tr := New()
	for _, payload := range []any{nil, "text", map[string]any{"k": "v"}, make(chan int)} {
		if err := tr.Deliver(context.Background(), "https://example.com", payload); err != nil {
			t.Errorf("Deliver(%T) = %v, want nil", payload, err)
		}
	}
}

func TestNoop_IgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Deliver(ctx, "", nil); err != nil {
		t.Errorf("Deliver() = %v, want nil", err)
	}
}

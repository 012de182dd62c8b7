// recover.go provides panic recovery for goroutines and handlers.

package notifier

import (
	"context"
	"fmt"
	"runtime/debug"
)

// PanicError wraps a recovered panic value so it can travel the error path.
type PanicError struct {
	Value any
	Stack string
}

func (p *PanicError) Error() string {
	if err, ok := p.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", p.Value)
}

// Name reports the wrapped error's name, or "panic" for non-error values.
func (p *PanicError) Name() string {
	if err, ok := p.Value.(error); ok {
		return ErrorName(err)
	}
	return "panic"
}

// StackTrace returns the stack captured where the panic was recovered.
func (p *PanicError) StackTrace() string {
	return p.Stack
}

func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// Recover captures a panic as a LevelFatal event and returns the recovered
// value. It does not re-panic. Must be deferred directly:
//
//	go func() {
//	    defer client.Recover(ctx)
//	    work()
//	}()
func (c *Client) Recover(ctx context.Context) any {
	r := recover()
	if r == nil {
		return nil
	}
	c.CapturePanic(ctx, r, nil)
	return r
}

// CapturePanic reports an already recovered panic value as a LevelFatal event.
// The stack is taken from the calling goroutine, so call it from the deferred
// function that recovered.
func (c *Client) CapturePanic(ctx context.Context, recovered any, req *RequestInfo) {
	if recovered == nil {
		return
	}
	c.captureError(ctx, "panic", &PanicError{
		Value: recovered,
		Stack: string(debug.Stack()),
	}, req, LevelFatal)
}

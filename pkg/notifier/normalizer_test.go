package notifier

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{ op string }

func (e *timeoutError) Error() string { return e.op + " timed out" }

type namedError struct{}

func (namedError) Error() string { return "custom message" }
func (namedError) Name() string  { return "CustomError" }

type tracedError struct{}

func (tracedError) Error() string      { return "traced" }
func (tracedError) StackTrace() string { return "origin.go:12" }

func TestNormalize_NonErrorsAreDiscarded(t *testing.T) {
	var nilErr *timeoutError

	inputs := []any{
		"string error",
		123,
		nil,
		map[string]any{"message": "object"},
		struct{ Name, Message string }{"Error", "shape only"},
		nilErr,
	}

	for _, in := range inputs {
		event, ok := Normalize(in, nil)
		assert.False(t, ok, "Normalize(%#v) should discard", in)
		assert.Nil(t, event)
	}
}

func TestNormalize_Error(t *testing.T) {
	event, ok := Normalize(errors.New("Test error message"), nil)
	require.True(t, ok)

	assert.Equal(t, "Test error message", event.Message)
	assert.Equal(t, LevelError, event.Level)
	require.NotNil(t, event.Error)
	assert.Equal(t, "Error", event.Error.Name)
	assert.Equal(t, "Test error message", event.Error.Message)
	assert.NotEmpty(t, event.ID)
	assert.NotZero(t, event.Timestamp)
	assert.NotEmpty(t, event.Error.Stack)
	assert.Nil(t, event.Request)
}

func TestNormalize_UniqueIDsForSameError(t *testing.T) {
	err := errors.New("Test")

	e1, ok1 := Normalize(err, nil)
	e2, ok2 := Normalize(err, nil)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func TestNormalize_ErrorNames(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("x"), "Error"},
		{fmt.Errorf("wrap: %w", errors.New("x")), "Error"},
		{namedError{}, "CustomError"},
		{&timeoutError{op: "dial"}, "notifier.timeoutError"},
	}

	for _, tt := range tests {
		event, ok := Normalize(tt.err, nil)
		require.True(t, ok)
		assert.Equal(t, tt.want, event.Error.Name, "name of %T", tt.err)
	}
}

func TestNormalize_UsesErrorStack(t *testing.T) {
	event, ok := Normalize(tracedError{}, nil)
	require.True(t, ok)
	assert.Equal(t, "origin.go:12", event.Error.Stack)
}

func TestNormalize_TrimsStack(t *testing.T) {
	long := &PanicError{Value: "p", Stack: strings.Repeat("x", MaxStackLength*2)}

	event, ok := Normalize(long, nil)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(event.Error.Stack, "…"))
}

func TestNormalize_RedactsRequestHeaders(t *testing.T) {
	req := &RequestInfo{
		Method:  "GET",
		URL:     "/users",
		Headers: map[string]string{"Authorization": "Bearer x", "Accept": "*/*"},
	}

	event, ok := Normalize(errors.New("boom"), req)
	require.True(t, ok)
	require.NotNil(t, event.Request)

	assert.Equal(t, RedactedValue, event.Request.Headers["Authorization"])
	assert.Equal(t, "*/*", event.Request.Headers["Accept"])
	assert.Equal(t, "Bearer x", req.Headers["Authorization"], "caller's request must not be modified")
}

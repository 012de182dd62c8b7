// normalizer.go converts captured errors into Events.

package notifier

import (
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Named is implemented by errors that report their own kind, e.g. "TimeoutError".
type Named interface {
	Name() string
}

// StackTracer is implemented by errors that carry the stack of their origin.
type StackTracer interface {
	StackTrace() string
}

// genericErrorName is reported for errors built by errors.New and fmt.Errorf.
const genericErrorName = "Error"

// Normalize turns raw into an Event. Only non-nil values implementing error
// are accepted; anything else returns (nil, false), which callers treat as
// "nothing to report". Every call yields a new ID and timestamp, even for the
// same error value.
func Normalize(raw any, req *RequestInfo) (*Event, bool) {
	err, ok := raw.(error)
	if !ok || isNilError(err) {
		return nil, false
	}

	stack := ""
	if st, ok := err.(StackTracer); ok {
		stack = st.StackTrace()
	} else {
		stack = string(debug.Stack())
	}

	message := err.Error()
	event := &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Level:     LevelError,
		Message:   message,
		Error: &ErrorInfo{
			Name:    ErrorName(err),
			Message: message,
			Stack:   TrimStack(stack),
		},
	}
	if req != nil {
		r := *req
		r.Headers = RedactHeaders(req.Headers)
		event.Request = &r
	}
	return event, true
}

// ErrorName returns the kind of err: its Name() when it implements Named,
// "Error" for the anonymous errors of the errors and fmt packages, and the
// dynamic type name (without pointer) otherwise.
func ErrorName(err error) string {
	if n, ok := err.(Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.PkgPath() {
	case "errors", "fmt":
		return genericErrorName
	}
	if t.Name() == "" {
		return genericErrorName
	}
	return t.String()
}

// isNilError catches typed nil pointers stored in an error interface.
func isNilError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

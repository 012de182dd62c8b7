// event.go defines the canonical event data structure for notifier.

package notifier

import "maps"

// Level indicates the severity or kind of an event.
type Level string

const (
	// LevelFatal indicates an unrecoverable failure such as a panic.
	LevelFatal Level = "fatal"

	// LevelError indicates a captured error.
	LevelError Level = "error"

	// LevelWarning indicates a non-fatal issue that may need attention.
	LevelWarning Level = "warning"

	// LevelInfo indicates an informational message.
	LevelInfo Level = "info"

	// LevelLatency indicates a latency sample that breached its threshold.
	LevelLatency Level = "latency"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelFatal, LevelError, LevelWarning, LevelInfo, LevelLatency:
		return true
	}
	return false
}

// BodyPresentMarker replaces request bodies; bodies are never captured.
const BodyPresentMarker = "[BODY PRESENT]"

// ErrorInfo describes the error behind an exception capture.
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	// Stack is bounded by TrimStack.
	Stack string `json:"stack,omitempty"`
}

// RequestInfo is the HTTP context of an event. Headers are always redacted
// before they are stored here.
type RequestInfo struct {
	Method  string            `json:"method,omitempty"`
	URL     string            `json:"url,omitempty"`
	IP      string            `json:"ip,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Params  map[string]string `json:"params,omitempty"`

	// Body is BodyPresentMarker when the request carried a body, empty otherwise.
	Body string `json:"body,omitempty"`
}

// Event is the canonical record of one captured error or latency sample.
type Event struct {
	// ID is unique per capture (UUID). It is not used for equality.
	ID string `json:"id"`

	// Timestamp is the capture time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`

	Level   Level  `json:"level"`
	Message string `json:"message"`

	// Fingerprint groups related events. Set once by the client before
	// BeforeSend runs.
	Fingerprint string `json:"fingerprint,omitempty"`

	Error   *ErrorInfo   `json:"error,omitempty"`
	Request *RequestInfo `json:"request,omitempty"`

	Tags  map[string]string `json:"tags,omitempty"`
	Extra map[string]any    `json:"extra,omitempty"`

	// Static identity from Options, applied last.
	Environment string `json:"environment,omitempty"`
	Service     string `json:"service,omitempty"`
	Release     string `json:"release,omitempty"`
}

// Clone returns a copy of e that shares no maps or pointers with it.
// Extra values themselves are copied shallowly.
func (e Event) Clone() Event {
	out := e
	if e.Error != nil {
		errInfo := *e.Error
		out.Error = &errInfo
	}
	if e.Request != nil {
		req := *e.Request
		req.Headers = maps.Clone(e.Request.Headers)
		req.Query = maps.Clone(e.Request.Query)
		req.Params = maps.Clone(e.Request.Params)
		out.Request = &req
	}
	out.Tags = maps.Clone(e.Tags)
	out.Extra = maps.Clone(e.Extra)
	return out
}

// LatencySample is a single latency measurement for an endpoint.
type LatencySample struct {
	Endpoint   string
	DurationMs int64

	// ThresholdMs is optional; zero means no threshold was configured.
	ThresholdMs int64
}

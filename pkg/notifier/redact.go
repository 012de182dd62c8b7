// redact.go scrubs sensitive request headers before they enter an event.

package notifier

import (
	"net/http"
	"strings"
)

// RedactedValue replaces the value of every sensitive header.
const RedactedValue = "[REDACTED]"

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
}

// RedactHeaders returns a copy of headers with sensitive values replaced by
// RedactedValue. Key matching is case-insensitive and keys keep their original
// spelling. A nil map yields nil.
func RedactHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}

	safe := make(map[string]string, len(headers))
	for key, value := range headers {
		if _, ok := sensitiveHeaders[strings.ToLower(key)]; ok {
			safe[key] = RedactedValue
		} else {
			safe[key] = value
		}
	}
	return safe
}

// RedactHTTPHeader flattens h (joining repeated values with ", ") and redacts it.
func RedactHTTPHeader(h http.Header) map[string]string {
	if h == nil {
		return nil
	}
	flat := make(map[string]string, len(h))
	for key, values := range h {
		flat[key] = strings.Join(values, ", ")
	}
	return RedactHeaders(flat)
}

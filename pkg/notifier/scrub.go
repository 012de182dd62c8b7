// scrub.go implements opt-in redaction of credentials and PII from events.

package notifier

import (
	"regexp"
	"strings"
)

// Patterns replaced in messages and stacks. Compiled once at package init.
var secretPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?(\s+['"]?[\w\-\.]+['"]?)?`),
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),         // OpenAI-style keys
	regexp.MustCompile(`(?i)gh[po]_[a-zA-Z0-9]{36}`),        // GitHub tokens
	regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),  // GitHub PAT
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`), // Slack tokens
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)(password|passwd|secret|credential)[=:\s]+['"]?[^\s'",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
}

// Substrings that mark a tag or extra key as sensitive (case-insensitive).
var sensitiveKeys = []string{"token", "key", "secret", "password", "passwd", "credential", "auth"}

var homeDirPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
}

// ScrubEvent returns a copy of event with credential-looking text and
// sensitive tag and extra values replaced by RedactedValue. Request headers
// are already redacted at capture time and are left alone.
func ScrubEvent(event Event) Event {
	out := event.Clone()

	out.Message = ScrubText(out.Message)
	if out.Error != nil {
		out.Error.Message = ScrubText(out.Error.Message)
		out.Error.Stack = scrubStack(out.Error.Stack)
	}

	for k := range out.Tags {
		if isSensitiveKey(k) {
			out.Tags[k] = RedactedValue
		} else {
			out.Tags[k] = ScrubText(out.Tags[k])
		}
	}
	for k, v := range out.Extra {
		out.Extra[k] = scrubValue(k, v)
	}
	return out
}

// ScrubText replaces secrets and email addresses in s.
func ScrubText(s string) string {
	if s == "" {
		return s
	}
	for _, p := range secretPatterns {
		s = p.ReplaceAllString(s, RedactedValue)
	}
	return s
}

func scrubStack(stack string) string {
	if stack == "" {
		return stack
	}
	for _, p := range homeDirPatterns {
		stack = p.ReplaceAllString(stack, "/[PATH]/")
	}
	return ScrubText(stack)
}

// scrubValue walks nested maps and slices; keys matching sensitiveKeys have
// their whole value redacted.
func scrubValue(key string, v any) any {
	if isSensitiveKey(key) {
		return RedactedValue
	}
	switch val := v.(type) {
	case string:
		return ScrubText(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = scrubValue(k, inner)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, inner := range val {
			if isSensitiveKey(k) {
				out[k] = RedactedValue
			} else {
				out[k] = ScrubText(inner)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = scrubValue("", inner)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

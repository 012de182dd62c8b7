// stacktrace.go bounds stack trace text.

package notifier

// MaxStackLength is the longest stack trace, in characters, kept on an event.
const MaxStackLength = 3000

const ellipsis = "…"

// TrimStack cuts stack to MaxStackLength characters and appends a single "…"
// when it was longer. Length is counted in runes so multi-byte text is never
// split. An empty stack stays empty.
func TrimStack(stack string) string {
	if stack == "" {
		return ""
	}
	// Fast path: byte length bounds rune count.
	if len(stack) <= MaxStackLength {
		return stack
	}

	count := 0
	for i := range stack {
		if count == MaxStackLength {
			return stack[:i] + ellipsis
		}
		count++
	}
	return stack
}

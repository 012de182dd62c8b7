// fingerprint.go generates stable hashes for grouping related events.

package notifier

import (
	"crypto/sha1" //nolint:gosec // used for grouping, not security
	"encoding/hex"
)

// Fingerprint returns the 40 character hex SHA-1 digest of input.
// It is stable across processes and defined for every string, including "".
func Fingerprint(input string) string {
	sum := sha1.Sum([]byte(input)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// EventFingerprint derives the fingerprint of an event from its message and
// error name. IDs, timestamps, tags and request data are ignored.
func EventFingerprint(event Event) string {
	name := ""
	if event.Error != nil {
		name = event.Error.Name
	}
	return Fingerprint(event.Message + name)
}

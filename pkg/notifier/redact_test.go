package notifier

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactHeaders_SensitiveKeys(t *testing.T) {
	got := RedactHeaders(map[string]string{
		"Authorization": "Bearer abc",
		"cookie":        "session=1",
		"SET-COOKIE":    "id=2",
		"Content-Type":  "application/json",
		"X-Request-Id":  "r-1",
	})

	assert.Equal(t, map[string]string{
		"Authorization": RedactedValue,
		"cookie":        RedactedValue,
		"SET-COOKIE":    RedactedValue,
		"Content-Type":  "application/json",
		"X-Request-Id":  "r-1",
	}, got)
}

func TestRedactHeaders_NilAndEmpty(t *testing.T) {
	assert.Nil(t, RedactHeaders(nil))

	empty := RedactHeaders(map[string]string{})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRedactHeaders_DoesNotMutateInput(t *testing.T) {
	in := map[string]string{"Authorization": "secret"}
	_ = RedactHeaders(in)
	assert.Equal(t, "secret", in["Authorization"])
}

func TestRedactHTTPHeader_FlattensAndRedacts(t *testing.T) {
	h := http.Header{}
	h.Add("Accept", "text/html")
	h.Add("Accept", "application/json")
	h.Set("Cookie", "a=b")

	got := RedactHTTPHeader(h)

	assert.Equal(t, "text/html, application/json", got["Accept"])
	assert.Equal(t, RedactedValue, got["Cookie"])
	assert.Nil(t, RedactHTTPHeader(nil))
}

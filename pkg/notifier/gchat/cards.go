package gchat

import (
	"encoding/json"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
)

const (
	unknown      = "unknown"
	noStackTrace = "No stack trace available"
)

var errorTitles = map[notifier.Level]string{
	notifier.LevelFatal:   "💥 Fatal Error",
	notifier.LevelError:   "🚨 Error Captured",
	notifier.LevelWarning: "⚠️ Warning",
	notifier.LevelInfo:    "ℹ️ Info",
}

// ErrorCard renders error, fatal, warning and info events: a summary, the
// event context and tags, the request (when present) and the stack trace.
func ErrorCard(event notifier.Event, opts ...Option) Message {
	cfg := newConfig(opts)

	title, ok := errorTitles[event.Level]
	if !ok {
		title = errorTitles[notifier.LevelError]
	}

	b := NewCardBuilder().
		SetCardID(event.ID).
		SetHeader(CardHeader{
			Title:     title,
			Subtitle:  subtitle(event),
			ImageType: "CIRCLE",
		}).
		AddSection("").
		AddDecoratedText(DecoratedText{
			TopLabel:  "Message",
			Text:      escape(event.Message),
			StartIcon: &Icon{KnownIcon: "NOT_STARTED"},
		})

	addContext(b, event, cfg)

	if req := event.Request; req != nil {
		b.AddSection("Request").
			AddDecoratedText(DecoratedText{
				TopLabel:  "Endpoint",
				Text:      escape(strings.TrimSpace(req.Method + " " + req.URL)),
				StartIcon: &Icon{KnownIcon: "BUS"},
			})

		var details []string
		if req.IP != "" {
			details = append(details, "IP: "+escape(req.IP))
		}
		if len(req.Query) > 0 {
			details = append(details, "Query: "+escape(compactJSON(req.Query)))
		}
		if len(req.Params) > 0 {
			details = append(details, "Params: "+escape(compactJSON(req.Params)))
		}
		if len(details) > 0 {
			b.AddTextParagraph(strings.Join(details, "<br>"))
		}
	}

	stack := noStackTrace
	if event.Error != nil && event.Error.Stack != "" {
		stack = escape(event.Error.Stack)
	}
	b.AddSection("Trace").AddTextParagraph("<code>" + stack + "</code>")

	addLink(b, cfg)
	return b.Build()
}

// LatencyCard renders latency events: endpoint, duration against threshold,
// and the event context. Values come from the endpoint, durationMs and
// thresholdMs extras.
func LatencyCard(event notifier.Event, opts ...Option) Message {
	cfg := newConfig(opts)

	endpoint, _ := event.Extra["endpoint"].(string)
	if endpoint == "" && event.Request != nil {
		endpoint = event.Request.URL
	}
	if endpoint == "" {
		endpoint = unknown
	}

	b := NewCardBuilder().
		SetCardID(event.ID).
		SetHeader(CardHeader{
			Title:    "⏱️ Latency Alert",
			Subtitle: subtitle(event),
		}).
		AddSection("Performance Metric").
		AddDecoratedText(DecoratedText{
			TopLabel:  "Endpoint",
			Text:      escape(endpoint),
			StartIcon: &Icon{KnownIcon: "CLOCK"},
		})

	if duration, ok := toInt64(event.Extra["durationMs"]); ok {
		d := DecoratedText{
			TopLabel:  "Duration",
			Text:      fmt.Sprintf("%dms", duration),
			StartIcon: &Icon{KnownIcon: "STAR"},
		}
		if threshold, ok := toInt64(event.Extra["thresholdMs"]); ok && threshold > 0 {
			d.BottomLabel = fmt.Sprintf("Threshold: %dms", threshold)
		}
		b.AddDecoratedText(d)
	}

	addContext(b, event, cfg)
	addLink(b, cfg)
	return b.Build()
}

func addContext(b *CardBuilder, event notifier.Event, cfg config) {
	b.AddSection("Context").
		AddDecoratedText(DecoratedText{
			TopLabel:    "Level",
			Text:        string(event.Level),
			BottomLabel: time.UnixMilli(event.Timestamp).In(cfg.location).Format(time.RFC1123),
		})

	if event.Release != "" {
		b.AddDecoratedText(DecoratedText{TopLabel: "Release", Text: escape(event.Release)})
	}
	if event.Fingerprint != "" {
		b.AddDecoratedText(DecoratedText{TopLabel: "Fingerprint", Text: shortFingerprint(event.Fingerprint)})
	}
	if len(event.Tags) > 0 {
		b.AddTextParagraph(formatTags(event.Tags))
	}
}

func addLink(b *CardBuilder, cfg config) {
	if cfg.linkURL == "" {
		return
	}
	b.AddSection("").AddButton(cfg.linkText, cfg.linkURL)
}

func subtitle(event notifier.Event) string {
	service := event.Service
	if service == "" {
		service = unknown
	}
	env := event.Environment
	if env == "" {
		env = unknown
	}
	return service + " • " + env
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = "<b>" + escape(k) + "</b>: " + escape(tags[k])
	}
	return strings.Join(lines, "<br>")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

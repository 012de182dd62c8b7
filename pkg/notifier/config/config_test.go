package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/gchat"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/transports/webhook"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, notifier.DefaultMaxEventsPerMinute, cfg.MaxEventsPerMinute)
	assert.Equal(t, notifier.DefaultMaxInFlight, cfg.MaxInFlight)
	assert.Equal(t, uint(webhook.DefaultAttempts), cfg.Transport.Attempts)
	assert.Equal(t, webhook.DefaultBaseDelay, cfg.Transport.BaseDelay)
	assert.Equal(t, webhook.DefaultTimeout, cfg.Transport.Timeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "notifier.yaml", `
webhook_url: https://chat.example.com/hook?key=k
service: billing
environment: staging
release: v2.0.0
max_events_per_minute: 10
transport:
  attempts: 5
  base_delay: 250ms
logger:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com/hook?key=k", cfg.WebhookURL)
	assert.Equal(t, "billing", cfg.Service)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "v2.0.0", cfg.Release)
	assert.Equal(t, 10, cfg.MaxEventsPerMinute)
	assert.Equal(t, uint(5), cfg.Transport.Attempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Transport.BaseDelay)
	assert.Equal(t, webhook.DefaultTimeout, cfg.Transport.Timeout)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "notifier.yaml", "service: from-file\nenvironment: from-file\n")
	t.Setenv("NOTIFIER_SERVICE", "from-env")
	t.Setenv("NOTIFIER_WEBHOOK_URL", "https://env.example.com/hook")
	t.Setenv("NOTIFIER_TRANSPORT_BASE_DELAY", "2s")
	t.Setenv("NOTIFIER_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Service)
	assert.Equal(t, "from-file", cfg.Environment)
	assert.Equal(t, "https://env.example.com/hook", cfg.WebhookURL)
	assert.Equal(t, 2*time.Second, cfg.Transport.BaseDelay)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, "bad.yaml", "service: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	cfg := &Config{
		WebhookURL:         "https://chat.example.com/hook",
		Service:            "api",
		Environment:        "prod",
		MaxEventsPerMinute: 5,
		Transport:          TransportConfig{Attempts: 2, BaseDelay: time.Millisecond, Timeout: time.Second},
		Logger:             LoggerConfig{Level: "warn", Format: "json"},
	}

	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com/hook", opts.WebhookURL)
	assert.Equal(t, "api", opts.Service)
	assert.Equal(t, 5, opts.MaxEventsPerMinute)
	assert.IsType(t, &gchat.Renderer{}, opts.Renderer)
	assert.IsType(t, &webhook.Transport{}, opts.Transport)
	require.NotNil(t, opts.Logger)

	client, err := notifier.New(opts)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestConfig_OptionsRejectsBadLogger(t *testing.T) {
	cfg := &Config{Logger: LoggerConfig{Format: "xml"}}
	_, err := cfg.Options()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr bool
	}{
		{"defaults", LoggerConfig{}, false},
		{"json debug", LoggerConfig{Level: "debug", Format: "json"}, false},
		{"console warn", LoggerConfig{Level: "warn", Format: "console"}, false},
		{"bad level", LoggerConfig{Level: "loud"}, true},
		{"bad format", LoggerConfig{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{Level: "error"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(-1), "debug must be disabled")
	assert.True(t, logger.Core().Enabled(2), "error must be enabled")
}

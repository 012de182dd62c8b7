// Package config loads notifier settings from an optional YAML file and
// NOTIFIER_* environment variables.
//
// Environment variables override the file: NOTIFIER_WEBHOOK_URL overrides
// webhook_url, NOTIFIER_TRANSPORT_BASE_DELAY overrides transport.base_delay.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/strongdm/gchat-notifier-go/pkg/notifier"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/gchat"
	"github.com/strongdm/gchat-notifier-go/pkg/notifier/transports/webhook"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NOTIFIER"

// Config is the file/env representation of notifier.Options. Hooks such as
// BeforeSend can only be set in code, on the Options returned by Options.
type Config struct {
	WebhookURL         string `mapstructure:"webhook_url"`
	Service            string `mapstructure:"service"`
	Environment        string `mapstructure:"environment"`
	Release            string `mapstructure:"release"`
	Debug              bool   `mapstructure:"debug"`
	MaxEventsPerMinute int    `mapstructure:"max_events_per_minute"`
	MaxInFlight        int    `mapstructure:"max_in_flight"`
	AttachRuntime      bool   `mapstructure:"attach_runtime"`
	ScrubMessages      bool   `mapstructure:"scrub_messages"`

	Transport TransportConfig `mapstructure:"transport"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// TransportConfig configures the webhook transport.
type TransportConfig struct {
	Attempts  uint          `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads path (if non-empty) and the environment. A missing file is an
// error only when path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("notifier")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("webhook_url", "")
	v.SetDefault("service", "")
	v.SetDefault("environment", "")
	v.SetDefault("release", "")
	v.SetDefault("debug", false)
	v.SetDefault("max_events_per_minute", notifier.DefaultMaxEventsPerMinute)
	v.SetDefault("max_in_flight", notifier.DefaultMaxInFlight)
	v.SetDefault("attach_runtime", false)
	v.SetDefault("scrub_messages", false)
	v.SetDefault("transport.attempts", webhook.DefaultAttempts)
	v.SetDefault("transport.base_delay", webhook.DefaultBaseDelay)
	v.SetDefault("transport.timeout", webhook.DefaultTimeout)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// Options converts the config into notifier.Options with a zap logger, a
// webhook transport and the Google Chat renderer.
func (c *Config) Options() (notifier.Options, error) {
	logCfg := c.Logger
	if c.Debug {
		logCfg.Level = "debug"
	}
	logger, err := NewLogger(logCfg)
	if err != nil {
		return notifier.Options{}, err
	}

	transport := webhook.New(
		webhook.WithAttempts(c.Transport.Attempts),
		webhook.WithBaseDelay(c.Transport.BaseDelay),
		webhook.WithTimeout(c.Transport.Timeout),
		webhook.WithLogger(logger),
	)

	return notifier.Options{
		WebhookURL:         c.WebhookURL,
		Service:            c.Service,
		Environment:        c.Environment,
		Release:            c.Release,
		Debug:              c.Debug,
		MaxEventsPerMinute: c.MaxEventsPerMinute,
		MaxInFlight:        c.MaxInFlight,
		AttachRuntime:      c.AttachRuntime,
		ScrubMessages:      c.ScrubMessages,
		Renderer:           gchat.NewRenderer(),
		Transport:          transport,
		Logger:             logger,
	}, nil
}

// NewLogger builds a zap logger from cfg. Unknown levels are an error; an
// empty level means info.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger level: %w", err)
		}
		level = parsed
	}

	var zc zap.Config
	switch cfg.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "", "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("logger format: unknown format %q", cfg.Format)
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

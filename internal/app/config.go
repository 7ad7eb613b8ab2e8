package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. CATAPULT_PORT.
const EnvPrefix = "CATAPULT_"

// Settings holds all configurable parameters for the application.
type Settings struct {
	ConfigPath string `koanf:"config"`
	LogLevel   string `koanf:"log"`
	LogFormat  string `koanf:"log_format"`

	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	Systemd   bool   `koanf:"systemd"`
	TraceSize int    `koanf:"trace_size"`

	WatchDebounce time.Duration `koanf:"watch_debounce"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DefaultConfigPath is $XDG_CONFIG_HOME/shortcut-catapult/config.yml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "shortcut-catapult", "config.yml")
}

// DefaultSettings returns Settings with production defaults.
func DefaultSettings() Settings {
	return Settings{
		ConfigPath: DefaultConfigPath(),
		LogLevel:   "warn",
		LogFormat:  "console",

		Host:      "127.0.0.1",
		Port:      8081,
		TraceSize: 100,

		WatchDebounce: 300 * time.Millisecond,

		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadSettings layers CATAPULT_* environment variables over the defaults.
// CATAPULT_LOG=debug sets LogLevel, CATAPULT_SHUTDOWN_TIMEOUT=3s sets
// ShutdownTimeout, and so on.
func LoadSettings() (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(DefaultSettings()), "."), nil); err != nil {
		return Settings{}, fmt.Errorf("failed to load default settings: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load environment: %w", err)
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the daemon cannot run with.
func (s Settings) Validate() error {
	if s.ConfigPath == "" {
		return fmt.Errorf("configuration path is empty")
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Addr is the TCP address the daemon listens on without socket activation.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultsMap(s Settings) map[string]any {
	return map[string]any{
		"config":           s.ConfigPath,
		"log":              s.LogLevel,
		"log_format":       s.LogFormat,
		"host":             s.Host,
		"port":             s.Port,
		"systemd":          s.Systemd,
		"trace_size":       s.TraceSize,
		"watch_debounce":   s.WatchDebounce,
		"read_timeout":     s.ReadTimeout,
		"write_timeout":    s.WriteTimeout,
		"idle_timeout":     s.IdleTimeout,
		"shutdown_timeout": s.ShutdownTimeout,
	}
}

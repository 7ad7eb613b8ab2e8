package app_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/catapult/internal/app"
)

func TestDefaultSettings_HasSensibleValues(t *testing.T) {
	s := app.DefaultSettings()

	assert.Equal(t, "config.yml", filepath.Base(s.ConfigPath))
	assert.Equal(t, "shortcut-catapult", filepath.Base(filepath.Dir(s.ConfigPath)))
	assert.Equal(t, 8081, s.Port)
	assert.Equal(t, "warn", s.LogLevel)
	assert.NotZero(t, s.TraceSize)
	assert.NotZero(t, s.WatchDebounce)
	assert.NotZero(t, s.ReadTimeout)
	assert.NotZero(t, s.WriteTimeout)
	assert.NotZero(t, s.IdleTimeout)
	assert.NotZero(t, s.ShutdownTimeout)
	assert.False(t, s.Systemd)
	assert.NoError(t, s.Validate())
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, app.EnvPrefix) {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := app.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, app.DefaultSettings(), s)
}

func TestLoadSettings_EmptyConfigPathRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATAPULT_CONFIG", "")

	_, err := app.LoadSettings()
	assert.ErrorContains(t, err, "configuration path is empty")
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATAPULT_CONFIG", "/tmp/catapult.yml")
	t.Setenv("CATAPULT_LOG", "debug")
	t.Setenv("CATAPULT_PORT", "9000")
	t.Setenv("CATAPULT_SYSTEMD", "true")
	t.Setenv("CATAPULT_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CATAPULT_WATCH_DEBOUNCE", "50ms")

	s, err := app.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catapult.yml", s.ConfigPath)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 9000, s.Port)
	assert.True(t, s.Systemd)
	assert.Equal(t, 3*time.Second, s.ShutdownTimeout)
	assert.Equal(t, 50*time.Millisecond, s.WatchDebounce)
	assert.Equal(t, app.DefaultSettings().ReadTimeout, s.ReadTimeout)
}

func TestLoadSettings_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"CATAPULT_PORT":             "99999",
		"CATAPULT_SHUTDOWN_TIMEOUT": "forever",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := app.LoadSettings()
			assert.Error(t, err)
		})
	}
}

func TestSettings_Addr(t *testing.T) {
	s := app.DefaultSettings()
	s.Port = 1234
	assert.Equal(t, "127.0.0.1:1234", s.Addr())
}

package app_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/catapult/internal/app"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/logging"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	yaml := "match:\n- prefix: gh/\n  url: https://github.com/$2\n- exact: home\n  url: https://example.org\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func testLoggers(t *testing.T) logging.Loggers {
	t.Helper()
	loggers, err := logging.Setup(logging.Options{Level: "warn", Format: logging.FormatJSON, Out: &bytes.Buffer{}})
	require.NoError(t, err)
	return loggers
}

func testSettings(t *testing.T) app.Settings {
	t.Helper()
	s := app.DefaultSettings()
	s.ConfigPath = writeTestConfig(t, t.TempDir())
	s.Port = freePort(t)
	s.ShutdownTimeout = 2 * time.Second
	return s
}

func TestNew_Success(t *testing.T) {
	a, err := app.New(testSettings(t), testLoggers(t))
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestNew_InvalidSettings(t *testing.T) {
	s := testSettings(t)
	s.ConfigPath = ""

	_, err := app.New(s, testLoggers(t))
	assert.Error(t, err)
}

func TestRun_RedirectsAndShutdownsGracefully(t *testing.T) {
	s := testSettings(t)
	a, err := app.New(s, testLoggers(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", s.Port)
	waitForServer(t, base+"/__admin/health", 3*time.Second)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(base + "/gh/golang/go")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://github.com/golang/go", resp.Header.Get("Location"))

	resp, err = client.Get(base + "/nowhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRun_ConfigErrorsSurfacePerRequest(t *testing.T) {
	s := testSettings(t)
	require.NoError(t, os.WriteFile(s.ConfigPath, []byte("match: [\n"), 0o644))

	a, err := app.New(s, testLoggers(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", s.Port)
	waitForServer(t, base+"/__admin/health", 3*time.Second)

	resp, err := http.Get(base + "/anything")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestRun_SystemdWithoutActivation(t *testing.T) {
	t.Setenv("LISTEN_PID", "")
	t.Setenv("LISTEN_FDS", "")

	s := testSettings(t)
	s.Systemd = true

	a, err := app.New(s, testLoggers(t))
	require.NoError(t, err)

	err = a.Run(context.Background())
	assert.ErrorContains(t, err, "not running under systemd socket activation")
}

func TestRun_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	s := testSettings(t)
	s.Port = l.Addr().(*net.TCPAddr).Port

	a, err := app.New(s, testLoggers(t))
	require.NoError(t, err)

	assert.Error(t, a.Run(context.Background()))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server not ready at %s after %v", url, timeout)
}

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

var _ ports.Logger = (*NoopLogger)(nil)

// NoopLogger discards all log output.
type NoopLogger struct{}

func (l *NoopLogger) Info(string, ...any)  {}
func (l *NoopLogger) Warn(string, ...any)  {}
func (l *NoopLogger) Error(string, ...any) {}
func (l *NoopLogger) Debug(string, ...any) {}

var _ ports.Logger = (*RecordingLogger)(nil)

// LogLine is one call captured by RecordingLogger.
type LogLine struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger keeps every call for later assertions.
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []LogLine
}

func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, LogLine{Level: level, Msg: msg, Args: args})
}

// Messages returns the recorded messages at level.
func (l *RecordingLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, line := range l.Lines {
		if line.Level == level {
			out = append(out, line.Msg)
		}
	}
	return out
}

var _ ports.Clock = (*FixedClock)(nil)

// FixedClock returns a fixed time.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

var _ matcher.Repository = (*StubRepository)(nil)

// StubRepository returns a preconfigured configuration or error.
type StubRepository struct {
	Config *matcher.Config
	Err    error
	Loads  int
}

func (r *StubRepository) Load(context.Context) (*matcher.Config, error) {
	r.Loads++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Config, nil
}

func (r *StubRepository) Source() string { return "stub" }

var _ ports.Systemctl = (*StubSystemctl)(nil)

// StubSystemctl records invocations. Fail maps a verb to the error it
// should return.
type StubSystemctl struct {
	Calls []string
	Fail  map[string]error
}

func (s *StubSystemctl) Run(_ context.Context, args ...string) error {
	s.Calls = append(s.Calls, strings.Join(args, " "))
	if len(args) > 0 {
		if err, ok := s.Fail[args[0]]; ok {
			return err
		}
	}
	return nil
}

// Must is a helper for test setup.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("testutil.Must: %v", err))
	}
	return v
}

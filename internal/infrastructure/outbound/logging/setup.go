package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Formats accepted by Options.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// TraceComponent tags records written by the trace logger.
const TraceComponent = "trace"

// Options configures the process loggers.
type Options struct {
	Level  string
	Format string
	Out    io.Writer
}

// Loggers holds the general logger and the trace logger. The trace logger
// is never stricter than info so successful resolutions stay visible at
// the default warn level.
type Loggers struct {
	Main  *ZerologLogger
	Trace *ZerologLogger
}

// Setup builds both loggers from opts. Nothing global is touched.
func Setup(opts Options) (Loggers, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return Loggers{}, err
	}

	var w io.Writer
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: opts.Out, TimeFormat: time.Kitchen, NoColor: true}
	case FormatJSON:
		w = opts.Out
	default:
		return Loggers{}, fmt.Errorf("unknown log format %q", opts.Format)
	}

	base := zerolog.New(w).With().Timestamp().Logger()
	traceLevel := level
	if traceLevel > zerolog.InfoLevel && traceLevel != zerolog.Disabled {
		traceLevel = zerolog.InfoLevel
	}

	return Loggers{
		Main:  New(base.Level(level)),
		Trace: New(base.Level(traceLevel).With().Str("component", TraceComponent).Logger()),
	}, nil
}

// ParseLevel maps a level name to a zerolog level. Empty means warn.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.WarnLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "off", "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

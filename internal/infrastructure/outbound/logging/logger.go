package logging

import (
	"github.com/rs/zerolog"

	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

var _ ports.Logger = (*ZerologLogger)(nil)

// ZerologLogger wraps a zerolog.Logger to implement ports.Logger.
// Args are alternating key/value pairs.
type ZerologLogger struct {
	logger zerolog.Logger
}

// New creates a ZerologLogger from a zerolog.Logger.
func New(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

func (l *ZerologLogger) Info(msg string, args ...any)  { emit(l.logger.Info(), msg, args) }
func (l *ZerologLogger) Warn(msg string, args ...any)  { emit(l.logger.Warn(), msg, args) }
func (l *ZerologLogger) Error(msg string, args ...any) { emit(l.logger.Error(), msg, args) }
func (l *ZerologLogger) Debug(msg string, args ...any) { emit(l.logger.Debug(), msg, args) }

func emit(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	if len(args)%2 == 1 {
		args = append(args, "(MISSING)")
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

package ports

import (
	"context"
	"time"
)

// Clock provides the current time (for testing).
type Clock interface {
	Now() time.Time
}

// Logger provides structured logging.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Systemctl drives the user service manager.
type Systemctl interface {
	// Run invokes systemctl --user with args.
	Run(ctx context.Context, args ...string) error
}

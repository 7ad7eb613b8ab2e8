package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sophialabs/catapult/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/systemd"
	"github.com/sophialabs/catapult/internal/infrastructure/wiring"
)

// App is the thin lifecycle manager that delegates dependency construction to wiring.Container.
type App struct {
	settings   Settings
	container  *wiring.Container
	notifier   *systemd.Notifier
	httpServer *http.Server
}

// New constructs the daemon from settings and the process loggers.
func New(s Settings, loggers logging.Loggers) (*App, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	container, err := wiring.New(wiring.Params{
		ConfigPath:  s.ConfigPath,
		TraceSize:   s.TraceSize,
		Logger:      loggers.Main,
		TraceLogger: loggers.Trace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wire infrastructure: %w", err)
	}

	httpServer := &http.Server{
		Addr:         s.Addr(),
		Handler:      container.Server(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}

	return &App{
		settings:   s,
		container:  container,
		notifier:   systemd.NewNotifier(loggers.Main),
		httpServer: httpServer,
	}, nil
}

// listen returns the socket passed in by systemd, or a fresh TCP listener.
func (a *App) listen() (net.Listener, error) {
	if a.settings.Systemd {
		return systemd.Listener()
	}
	return net.Listen("tcp", a.httpServer.Addr)
}

// Run serves until SIGINT, SIGTERM or ctx cancellation, then shuts down
// gracefully. The configuration file is not read until the first request.
func (a *App) Run(ctx context.Context) error {
	logger := a.container.Logger()

	ln, err := a.listen()
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting catapult daemon",
			"addr", ln.Addr().String(),
			"config", a.settings.ConfigPath,
			"systemd", a.settings.Systemd,
		)
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.settings.Systemd {
		if err := a.notifier.Ready(); err != nil {
			logger.Warn("readiness notification failed", "error", err)
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		if a.settings.Systemd {
			if err := a.notifier.Stopping(); err != nil {
				logger.Warn("stopping notification failed", "error", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

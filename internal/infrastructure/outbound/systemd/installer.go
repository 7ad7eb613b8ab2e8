package systemd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

// Installer writes and removes the user units and drives systemctl.
type Installer struct {
	unitDir   string
	binary    string
	systemctl ports.Systemctl
	logger    ports.Logger
}

// NewInstaller creates an Installer. binary is the absolute path written
// into ExecStart.
func NewInstaller(unitDir, binary string, systemctl ports.Systemctl, logger ports.Logger) *Installer {
	return &Installer{
		unitDir:   unitDir,
		binary:    binary,
		systemctl: systemctl,
		logger:    logger,
	}
}

// ServicePath returns the location of the service unit.
func (i *Installer) ServicePath() string { return filepath.Join(i.unitDir, ServiceUnit) }

// SocketPath returns the location of the socket unit.
func (i *Installer) SocketPath() string { return filepath.Join(i.unitDir, SocketUnit) }

// Install writes both units, reloads the manager, and enables and starts
// the socket.
func (i *Installer) Install(ctx context.Context, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	i.logger.Info("installing systemd user units", "port", port, "dir", i.unitDir)

	service, err := RenderService(i.binary)
	if err != nil {
		return fmt.Errorf("failed to render service unit: %w", err)
	}
	socket, err := RenderSocket(port)
	if err != nil {
		return fmt.Errorf("failed to render socket unit: %w", err)
	}

	if err := os.MkdirAll(i.unitDir, 0o755); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}
	if err := os.WriteFile(i.ServicePath(), []byte(service), 0o644); err != nil {
		return fmt.Errorf("failed to write service unit: %w", err)
	}
	i.logger.Info("created service file", "path", i.ServicePath())
	if err := os.WriteFile(i.SocketPath(), []byte(socket), 0o644); err != nil {
		return fmt.Errorf("failed to write socket unit: %w", err)
	}
	i.logger.Info("created socket file", "path", i.SocketPath())

	for _, args := range [][]string{
		{"daemon-reload"},
		{"enable", SocketUnit},
		{"start", SocketUnit},
	} {
		if err := i.systemctl.Run(ctx, args...); err != nil {
			return err
		}
	}

	i.logger.Info("installation completed")
	return nil
}

// Uninstall stops and disables both units, removes their files and
// reloads the manager. Stop and disable failures are ignored so repeated
// runs succeed.
func (i *Installer) Uninstall(ctx context.Context) error {
	i.logger.Info("uninstalling systemd user units", "dir", i.unitDir)

	for _, unit := range []string{SocketUnit, ServiceUnit} {
		for _, verb := range []string{"stop", "disable"} {
			if err := i.systemctl.Run(ctx, verb, unit); err != nil {
				i.logger.Debug("ignoring systemctl failure", "verb", verb, "unit", unit, "error", err)
			}
		}
	}

	for _, path := range []string{i.ServicePath(), i.SocketPath()} {
		err := os.Remove(path)
		switch {
		case err == nil:
			i.logger.Info("removed unit file", "path", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	if err := i.systemctl.Run(ctx, "daemon-reload"); err != nil {
		return err
	}

	i.logger.Info("uninstallation completed")
	return nil
}

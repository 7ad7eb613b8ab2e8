package systemd

import (
	"errors"
	"fmt"
	"net"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

// ErrNotActivated is returned by Listener outside socket activation.
var ErrNotActivated = errors.New("not running under systemd socket activation")

// Listener returns the first socket passed in by systemd.
func Listener() (net.Listener, error) {
	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf("failed to read systemd sockets: %w", err)
	}
	for i, l := range listeners {
		if l == nil {
			continue
		}
		for _, extra := range listeners[i+1:] {
			if extra != nil {
				_ = extra.Close()
			}
		}
		return l, nil
	}
	return nil, ErrNotActivated
}

// Notifier reports service state to systemd. Outside systemd every call
// is a no-op.
type Notifier struct {
	logger ports.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(logger ports.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Ready sends READY=1.
func (n *Notifier) Ready() error { return n.notify(daemon.SdNotifyReady) }

// Stopping sends STOPPING=1.
func (n *Notifier) Stopping() error { return n.notify(daemon.SdNotifyStopping) }

func (n *Notifier) notify(state string) error {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		return fmt.Errorf("failed to notify systemd: %w", err)
	}
	if sent {
		n.logger.Info("notified systemd", "state", state)
	} else {
		n.logger.Debug("systemd notification not sent", "state", state)
	}
	return nil
}

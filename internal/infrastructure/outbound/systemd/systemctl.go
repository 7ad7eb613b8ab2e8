package systemd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sophialabs/catapult/internal/infrastructure/ports"
)

var _ ports.Systemctl = (*ExecSystemctl)(nil)

// ExecSystemctl runs the systemctl binary against the user manager.
type ExecSystemctl struct {
	logger ports.Logger
}

// NewExecSystemctl creates an ExecSystemctl.
func NewExecSystemctl(logger ports.Logger) *ExecSystemctl {
	return &ExecSystemctl{logger: logger}
}

func (s *ExecSystemctl) Run(ctx context.Context, args ...string) error {
	s.logger.Debug("running systemctl", "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "systemctl", append([]string{"--user"}, args...)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("systemctl %s failed: %s", strings.Join(args, " "), msg)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sophialabs/catapult/internal/app"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/logging"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/systemd"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
	"github.com/sophialabs/catapult/internal/infrastructure/wiring"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoMatch = 2
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errNoMatch makes the process exit with exitNoMatch without printing anything.
var errNoMatch = errors.New("no match")

// cli carries the state shared by every command. Nothing here is global so
// tests can run commands side by side.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	info       bool
	debug      bool

	settings app.Settings
	loggers  logging.Loggers

	// Overridable in tests.
	unitDir   string
	binary    string
	systemctl ports.Systemctl
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return newCLI(stdin, stdout, stderr).execute(args)
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (c *cli) execute(args []string) int {
	return c.executeContext(context.Background(), args)
}

func (c *cli) executeContext(ctx context.Context, args []string) int {
	root := c.rootCmd()
	root.SetArgs(args)
	return c.exitCode(root.ExecuteContext(ctx))
}

func (c *cli) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNoMatch):
		return exitNoMatch
	default:
		_, _ = fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitError
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catapult",
		Short: "Resolve shortcuts into redirect targets",
		Long: `catapult resolves an input string, such as a URL path or a short alias,
into a redirect target by running it through a YAML-configured chain of
matchers. Use "apply" for one-off resolution or "daemon" to serve HTTP redirects.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/shortcut-catapult/config.yml)")
	flags.BoolVar(&c.info, "info", false, "enable INFO logging")
	flags.BoolVar(&c.debug, "debug", false, "enable DEBUG logging")

	root.AddCommand(
		c.applyCmd(),
		c.daemonCmd(),
		c.checkCmd(),
		c.installCmd(),
		c.uninstallCmd(),
		c.versionCmd(),
	)
	return root
}

// setup resolves settings and loggers. Flags win over CATAPULT_* variables.
func (c *cli) setup() error {
	s, err := app.LoadSettings()
	if err != nil {
		return err
	}
	if c.configPath != "" {
		s.ConfigPath = c.configPath
	}
	switch {
	case c.debug:
		s.LogLevel = "debug"
	case c.info:
		s.LogLevel = "info"
	}

	loggers, err := logging.Setup(logging.Options{Level: s.LogLevel, Format: s.LogFormat, Out: c.stderr})
	if err != nil {
		return err
	}

	c.settings = s
	c.loggers = loggers
	c.loggers.Main.Debug("using configuration", "path", s.ConfigPath)
	return nil
}

func (c *cli) container() (*wiring.Container, error) {
	return wiring.New(wiring.Params{
		ConfigPath:  c.settings.ConfigPath,
		TraceSize:   c.settings.TraceSize,
		Logger:      c.loggers.Main,
		TraceLogger: c.loggers.Trace,
	})
}

func (c *cli) installer() (*systemd.Installer, error) {
	unitDir := c.unitDir
	if unitDir == "" {
		unitDir = systemd.DefaultUnitDir()
	}
	binary := c.binary
	if binary == "" {
		exe, err := executable()
		if err != nil {
			return nil, fmt.Errorf("could not determine binary path: %w", err)
		}
		binary = exe
	}
	ctl := c.systemctl
	if ctl == nil {
		ctl = systemd.NewExecSystemctl(c.loggers.Main)
	}
	return systemd.NewInstaller(unitDir, binary, ctl, c.loggers.Main), nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sophialabs/catapult/internal/app"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/catapult/internal/infrastructure/usecases"
)

func (c *cli) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [URL|-]",
		Short: "Apply the config to a single input",
		Long: `Resolve one input and print the redirect target without a trailing newline.
The input is read from stdin when omitted or "-". Exits 2 when nothing matches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := c.readInput(args)
			if err != nil {
				return err
			}

			container, err := c.container()
			if err != nil {
				return err
			}

			res, err := container.ResolveUseCase().Execute(cmd.Context(), usecases.SourceCLI, input)
			if err != nil {
				return err
			}
			if !res.Matched {
				return errNoMatch
			}

			_, err = io.WriteString(c.stdout, res.Redirect)
			return err
		},
	}
}

func (c *cli) readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (c *cli) daemonCmd() *cobra.Command {
	var (
		port        int
		withSystemd bool
	)

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the HTTP redirect daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.settings
			if cmd.Flags().Changed("port") {
				s.Port = port
			}
			if withSystemd {
				s.Systemd = true
			}

			a, err := app.New(s, c.loggers)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", app.DefaultSettings().Port, "port to listen on")
	cmd.Flags().BoolVar(&withSystemd, "systemd", false, "use systemd socket activation and readiness notification")
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config and summarise it",
		Long: `Parse the config, compile every regex and print a summary with warnings
about matchers that can never take effect. With --watch, check again on
every change until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := c.container()
			if err != nil {
				return err
			}

			check := func(ctx context.Context) error {
				report, err := container.ValidateUseCase().Execute(ctx)
				if report != nil {
					_, _ = fmt.Fprintf(c.stdout, "%s: %s\n", c.settings.ConfigPath, report.Summary())
					for _, w := range report.Warnings {
						_, _ = fmt.Fprintf(c.stdout, "warning: %s\n", w)
					}
				}
				return err
			}

			if !watch {
				return check(cmd.Context())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report := func() {
				if err := check(ctx); err != nil {
					_, _ = fmt.Fprintf(c.stderr, "Error: %v\n", err)
				}
			}

			w, err := filesystem.NewWatcher(c.settings.ConfigPath, c.settings.WatchDebounce, c.loggers.Main, report)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", filepath.Dir(c.settings.ConfigPath), err)
			}
			defer w.Stop()

			// The first check finishes before events are delivered, so
			// runs never overlap.
			report()
			w.Start()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-check whenever the config changes")
	return cmd
}

func (c *cli) installCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the systemd user service and socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst, err := c.installer()
			if err != nil {
				return err
			}
			if err := inst.Install(cmd.Context(), port); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.stdout, "installed %s and %s\n", inst.ServicePath(), inst.SocketPath())
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", app.DefaultSettings().Port, "port for the systemd socket to listen on")
	return cmd
}

func (c *cli) uninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the systemd user service and socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst, err := c.installer()
			if err != nil {
				return err
			}
			return inst.Uninstall(cmd.Context())
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(c.stdout, "catapult %s\n", version)
			return err
		},
	}
}

func executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

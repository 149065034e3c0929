package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/rcliao/taskpilot/internal/client"
	"github.com/rcliao/taskpilot/internal/config"
	"github.com/rcliao/taskpilot/internal/server"
	"github.com/rcliao/taskpilot/internal/tui"
	"github.com/rcliao/taskpilot/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s)", v, short)
}

type flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
}

func main() {
	ctx := context.Background()

	var (
		f         flags
		logger    zerolog.Logger
		logCloser func()
		cfg       *config.Config
	)

	app := &cli.Command{
		Name:    "taskpilot",
		Usage:   "Plan tasks with a confidence-scoring assistant",
		Version: build(),
		Description: `Taskpilot runs a task planning server and a terminal client.

The server scores each task description for clarity, breaks tasks into
steps, and pushes the full task list to every connected client.

Run 'taskpilot serve' to start the server.
Run 'taskpilot' with no arguments to open the terminal client.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKPILOT_LOG_LEVEL"),
				Value:       "info",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("TASKPILOT_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKPILOT_CONFIG"),
				Value:       defaultConfigPath(),
				Destination: &f.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, logCloser, err = logutils.New(logutils.Options{
				Level: f.LogLevel,
				File:  f.LogFile,
			})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}

			cfg, err = config.Load(f.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the task planning server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "listen address (host:port)",
						Sources: cli.EnvVars("TASKPILOT_ADDR"),
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					addr := cfg.Server.Addr
					if v := c.String("addr"); v != "" {
						addr = v
					}
					return runServer(ctx, logger, addr)
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'taskpilot --help' for usage", c.Args().First())
			}
			return runClient(ctx, logger, cfg)
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runServer(ctx context.Context, logger zerolog.Logger, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(logger)
	return srv.ListenAndServe(ctx, addr)
}

func runClient(ctx context.Context, logger zerolog.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := client.New(cfg.Client.URL, cfg.Client.ReconnectDelay(), logger)
	go c.Run(ctx)

	model := tui.NewModel(c, cancel, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskpilot.yml"
	}
	return dir + "/taskpilot/taskpilot.yml"
}

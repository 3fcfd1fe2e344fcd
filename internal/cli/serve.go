package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Popov85/challenge-graph/internal/config"
	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/metrics"
	"github.com/Popov85/challenge-graph/internal/server"
	"github.com/Popov85/challenge-graph/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
	Addr       string
	Journal    string
	NoMetrics  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP graph service",
		Long: `Run the graph service over HTTP until SIGINT or SIGTERM.

The graph always starts empty. When a journal path is configured every
accepted operation is also recorded to SQLite for replay and trace; the
journal is never loaded back into the running service.

Flags override values from the config file.

Examples:
  graphd serve
  graphd serve --config ./graphd.yaml
  graphd serve --addr :9000 --journal ./graphd.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (overrides journal.path)")
	cmd.Flags().BoolVar(&opts.NoMetrics, "no-metrics", false, "disable the metrics endpoint")

	return cmd
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(opts *ServeOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = opts.Addr
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Path = opts.Journal
	}
	if opts.NoMetrics {
		cfg.Metrics.Enabled = false
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	engineOpts := []engine.Option{engine.WithLogger(logger)}

	if cfg.Journal.Path != "" {
		logger.Info("opening journal", "path", cfg.Journal.Path)
		st, err := store.Open(cfg.Journal.Path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithJournal(st))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)
		engineOpts = append(engineOpts, engine.WithObserver(m))
	}

	eng := engine.New(engineOpts...)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Start(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to start session", err)
	}

	srv := server.New(eng, server.Options{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Metrics:         m,
		MetricsPath:     cfg.Metrics.Path,
		Logger:          logger,
	})

	logger.Info("graphd starting",
		"addr", cfg.Server.Addr,
		"session", eng.SessionID(),
		"journal", cfg.Journal.Path,
		"metrics", cfg.Metrics.Enabled,
	)

	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	stats := eng.Stats()
	logger.Info("graphd stopped",
		"operations", eng.Seq(),
		"nodes", stats.Nodes,
		"connections", stats.Connections,
	)
	fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
	return nil
}

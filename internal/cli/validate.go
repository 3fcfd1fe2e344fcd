package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/Popov85/challenge-graph/internal/config"
)

// ValidationResult holds the outcome of validating a config file.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Path   string         `json:"path"`
	Config *config.Config `json:"config,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file without starting the service",
		Long: `Validate a YAML config file against the config schema.

Unknown keys, malformed addresses, non-positive timeouts and unknown log
levels or formats are all reported.

Exit codes:
  0 - Config is valid
  1 - Config is invalid
  2 - Command error (file not readable)

Examples:
  graphd validate --config ./graphd.yaml
  graphd validate --config ./graphd.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "path to YAML config file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		var pathErr *fs.PathError
		exitErr := WrapExitError(ExitFailure, "config is invalid", err)
		if errors.As(err, &pathErr) {
			exitErr = WrapExitError(ExitCommandError, "config could not be read", err)
		}
		if outErr := formatter.Error(ErrCodeConfig, exitErr.Error(), map[string]any{"path": path}); outErr != nil {
			return fmt.Errorf("write output: %w", outErr)
		}
		return exitErr
	}

	return formatter.Success(
		ValidationResult{Valid: true, Path: path, Config: &cfg},
		fmt.Sprintf("%s: valid (addr %s, log %s/%s, journal %q, metrics %t)",
			path, cfg.Server.Addr, cfg.Log.Level, cfg.Log.Format, cfg.Journal.Path, cfg.Metrics.Enabled),
	)
}

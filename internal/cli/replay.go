package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/graph"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - defaults to the latest session
}

// ReplayResult is the outcome of replaying one session.
type ReplayResult struct {
	SessionID     string             `json:"session_id"`
	Operations    int                `json:"operations"`
	Deterministic bool               `json:"deterministic"`
	Stats         graph.Stats        `json:"stats"`
	Connections   []graph.Connection `json:"connections"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild a session's graph from the journal",
		Long: `Rebuild the graph of one journaled session and print its connections.

Every operation id is recomputed and every operation must classify the same
way it did when first applied. The session is replayed twice to confirm the
rebuild is deterministic.

Exit codes:
  0 - Replay succeeded and is deterministic
  1 - Replay failed or diverged
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  graphd replay --db ./graphd.db
  graphd replay --db ./graphd.db --session 0192f0c1-...
  graphd replay --db ./graphd.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to replay (default: latest)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openJournal(opts.Database)
	if err != nil {
		return reportError(formatter, err, ErrCodeJournal)
	}
	defer st.Close()

	sessionID, err := resolveSession(ctx, st, opts.SessionID)
	if err != nil {
		return reportError(formatter, err, ErrCodeJournal)
	}

	ops, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to read session", err), ErrCodeJournal)
	}
	if len(ops) == 0 {
		return reportError(formatter, NewExitError(ExitCommandError, fmt.Sprintf("no operations for session %s", sessionID)), ErrCodeNotFound)
	}
	formatter.VerboseLog("Replaying %d operation(s) of session %s", len(ops), sessionID)

	first, err := engine.Replay(ctx, ops)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "replay failed", err), ErrCodeReplay)
	}
	second, err := engine.Replay(ctx, ops)
	if err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "replay failed", err), ErrCodeReplay)
	}

	result := ReplayResult{
		SessionID:     sessionID,
		Operations:    len(ops),
		Deterministic: slices.Equal(first.Connections(), second.Connections()),
		Stats:         first.Stats(),
		Connections:   first.Connections(),
	}

	if !result.Deterministic {
		return reportError(formatter, NewExitError(ExitFailure, "replay is not deterministic"), ErrCodeReplay)
	}

	lines := make([]string, 0, len(result.Connections)+1)
	lines = append(lines, fmt.Sprintf("# session %s: %d operations, %d nodes, %d connections, %d components",
		sessionID, result.Operations, result.Stats.Nodes, result.Stats.Connections, result.Stats.Components))
	for _, c := range result.Connections {
		lines = append(lines, c.String())
	}
	return formatter.Success(result, lines...)
}

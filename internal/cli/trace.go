package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Popov85/challenge-graph/internal/record"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	SessionID string
	RequestID string
}

// TraceStats summarizes a timeline.
type TraceStats struct {
	Operations int `json:"operations"`
	Fresh      int `json:"fresh"`
	Extend     int `json:"extend"`
	Bridge     int `json:"bridge"`
	Added      int `json:"added"`
}

// TraceResult is the journal timeline of a session or request.
type TraceResult struct {
	SessionID string             `json:"session_id,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Timeline  []record.Operation `json:"timeline"`
	Stats     TraceStats         `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal timeline of a session or request",
		Long: `Show journaled operations in seq order.

By default the latest session is shown. Use --session to pick a session or
--request to find the operation recorded for an X-Request-ID.

Examples:
  graphd trace --db ./graphd.db
  graphd trace --db ./graphd.db --request 0192f0c1-...
  graphd trace --db ./graphd.db --session 0192f0c1-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to trace (default: latest)")
	cmd.Flags().StringVar(&opts.RequestID, "request", "", "request id to trace")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.SessionID != "" && opts.RequestID != "" {
		return reportError(formatter, NewExitError(ExitCommandError, "--session and --request are exclusive"), ErrCodeInvalidFlag)
	}

	st, err := openJournal(opts.Database)
	if err != nil {
		return reportError(formatter, err, ErrCodeJournal)
	}
	defer st.Close()

	result := TraceResult{RequestID: opts.RequestID}
	if opts.RequestID != "" {
		result.Timeline, err = st.ReadRequest(ctx, opts.RequestID)
	} else {
		result.SessionID, err = resolveSession(ctx, st, opts.SessionID)
		if err != nil {
			return reportError(formatter, err, ErrCodeJournal)
		}
		result.Timeline, err = st.ReadSession(ctx, result.SessionID)
	}
	if err != nil {
		return reportError(formatter, WrapExitError(ExitCommandError, "failed to read journal", err), ErrCodeJournal)
	}

	result.Stats = summarize(result.Timeline)

	if len(result.Timeline) == 0 {
		return formatter.Success(result, "No operations found.")
	}
	return formatter.Success(result, traceLines(result, opts.Verbose)...)
}

func summarize(ops []record.Operation) TraceStats {
	stats := TraceStats{Operations: len(ops)}
	for _, op := range ops {
		switch op.Kind {
		case "fresh":
			stats.Fresh++
		case "extend":
			stats.Extend++
		case "bridge":
			stats.Bridge++
		}
		stats.Added += op.Added
	}
	return stats
}

func traceLines(result TraceResult, verbose bool) []string {
	lines := make([]string, 0, len(result.Timeline)+2)
	if result.SessionID != "" {
		lines = append(lines, "Session: "+result.SessionID)
	} else {
		lines = append(lines, "Request: "+result.RequestID)
	}

	for _, op := range result.Timeline {
		line := fmt.Sprintf("  #%-4d %-6s %s -> [%s] +%d",
			op.Seq, op.Kind, op.Anchor, strings.Join(op.Targets, ", "), op.Added)
		if verbose {
			line += fmt.Sprintf("  request=%s id=%s", op.RequestID, op.ID)
		}
		lines = append(lines, line)
	}

	s := result.Stats
	lines = append(lines, fmt.Sprintf("Stats: %d operations (%d fresh, %d extend, %d bridge), %d connections added",
		s.Operations, s.Fresh, s.Extend, s.Bridge, s.Added))
	return lines
}

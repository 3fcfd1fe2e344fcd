package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/graph"
	"github.com/Popov85/challenge-graph/internal/store"
	"github.com/Popov85/challenge-graph/internal/testutil"
)

// Harness executes one scenario against a fresh engine.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh engine journaling to an in-memory
// SQLite database. Step expectations and assertions that fail are reported
// in Result.Errors; the returned error is reserved for infrastructure
// failures.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sessionID := scenario.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(
		engine.WithSessionID(sessionID),
		engine.WithRequestIDs(testutil.NewSequenceGenerator("req")),
		engine.WithJournal(st),
		engine.WithLogger(logger),
	)

	h := &Harness{store: st, engine: eng, logger: logger}

	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	result := NewResult()
	h.executeSteps(ctx, scenario.Steps, result)

	result.Connections = eng.Connections()
	result.Stats = eng.Stats()

	if err := h.checkReplay(ctx, sessionID, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, eng, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSteps applies every step and checks its expectation.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		targets := step.TargetStrings()
		receipt, err := h.engine.Apply(ctx, step.Anchor, targets)

		trace := StepTrace{
			Step:    i,
			Anchor:  step.Anchor,
			Targets: targets,
		}

		if err != nil {
			trace.Error = string(graph.ReasonOf(err))
			if trace.Error == "" {
				trace.Error = err.Error()
			}
			result.Trace = append(result.Trace, trace)

			switch {
			case step.ExpectError == "":
				result.AddError(fmt.Sprintf("steps[%d]: unexpected rejection: %v", i, err))
			case step.ExpectError != ExpectInvalidArgument && step.ExpectError != trace.Error:
				result.AddError(fmt.Sprintf("steps[%d]: expected rejection %s, got %s", i, step.ExpectError, trace.Error))
			}
			continue
		}

		trace.Seq = receipt.Seq
		trace.Kind = string(receipt.Outcome.Kind)
		trace.Added = receipt.Outcome.Added
		result.Trace = append(result.Trace, trace)

		if step.ExpectError != "" {
			result.AddError(fmt.Sprintf("steps[%d]: expected rejection %s, step was accepted", i, step.ExpectError))
		}
		if step.ExpectKind != "" && step.ExpectKind != trace.Kind {
			result.AddError(fmt.Sprintf("steps[%d]: expected %s, got %s", i, step.ExpectKind, trace.Kind))
		}

		h.logger.Debug("step applied", "step", i, "seq", receipt.Seq, "kind", trace.Kind)
	}
}

// checkReplay rebuilds the graph from the journal and compares it with the
// live one.
func (h *Harness) checkReplay(ctx context.Context, sessionID string, result *Result) error {
	ops, err := h.store.ReadSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	replayed, err := engine.Replay(ctx, ops)
	if err != nil {
		result.AddError(fmt.Sprintf("replay failed: %v", err))
		return nil
	}

	if !slices.Equal(replayed.Connections(), result.Connections) {
		result.AddError("replay diverged: journal does not reproduce the live graph")
	}
	return nil
}

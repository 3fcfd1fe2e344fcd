package engine

import (
	"context"
	"fmt"

	"github.com/Popov85/challenge-graph/internal/graph"
	"github.com/Popov85/challenge-graph/internal/record"
)

// Replay rebuilds a graph from journaled operations in the given order.
//
// Every operation must carry its original id and must classify the same
// way it did when first applied; the first violation stops the replay with
// a *ReplayError. Replaying the same operations always yields the same
// connection list.
func Replay(ctx context.Context, ops []record.Operation) (*graph.Graph, error) {
	g := graph.New()

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}

		if err := op.Verify(); err != nil {
			return nil, &ReplayError{
				Code:        ErrCodeIDMismatch,
				Message:     err.Error(),
				Seq:         op.Seq,
				OperationID: op.ID,
			}
		}

		outcome, err := g.Apply(op.Anchor, op.Targets)
		if err != nil {
			return nil, &ReplayError{
				Code:        ErrCodeRejected,
				Message:     err.Error(),
				Seq:         op.Seq,
				OperationID: op.ID,
			}
		}

		if string(outcome.Kind) != op.Kind || outcome.Added != op.Added {
			return nil, &ReplayError{
				Code: ErrCodeDiverged,
				Message: fmt.Sprintf("recorded %s/+%d, replayed %s/+%d",
					op.Kind, op.Added, outcome.Kind, outcome.Added),
				Seq:         op.Seq,
				OperationID: op.ID,
			}
		}
	}

	return g, nil
}

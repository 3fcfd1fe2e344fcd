package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Popov85/challenge-graph/internal/record"
)

// Snapshot captures a scenario execution for golden comparison.
type Snapshot struct {
	ScenarioName string
	Trace        []StepTrace
	Connections  []string
	Nodes        int
	Components   int
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Connections:  FormatConnections(result.Connections),
		Nodes:        result.Stats.Nodes,
		Components:   result.Stats.Components,
	}
}

// toCanonicalMap converts the snapshot for canonical JSON serialization.
func (s Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Trace))
	for i, st := range s.Trace {
		entry := map[string]any{
			"step":    st.Step,
			"anchor":  st.Anchor,
			"targets": st.Targets,
		}
		if st.Accepted() {
			entry["seq"] = st.Seq
			entry["kind"] = st.Kind
			entry["added"] = st.Added
		} else {
			entry["error"] = st.Error
		}
		steps[i] = entry
	}

	return map[string]any{
		"scenario":    s.ScenarioName,
		"steps":       steps,
		"connections": s.Connections,
		"nodes":       s.Nodes,
		"components":  s.Components,
	}
}

// Marshal renders the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return record.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot with
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

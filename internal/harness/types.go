package harness

import "github.com/Popov85/challenge-graph/internal/graph"

// StepTrace records what happened to one step.
type StepTrace struct {
	Step    int      `json:"step"`
	Anchor  string   `json:"anchor"`
	Targets []string `json:"targets"`

	// Set for accepted steps.
	Seq   int64  `json:"seq,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Added int    `json:"added,omitempty"`

	// Set for rejected steps: the rejection reason.
	Error string `json:"error,omitempty"`
}

// Accepted reports whether the step changed the graph.
func (s StepTrace) Accepted() bool {
	return s.Error == ""
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace has one entry per step, in order.
	Trace []StepTrace `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Connections is the final sorted connection list.
	Connections []graph.Connection `json:"connections"`

	// Stats is the final graph size.
	Stats graph.Stats `json:"stats"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Trace:       []StepTrace{},
		Errors:      []string{},
		Connections: []graph.Connection{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Popov85/challenge-graph/internal/graph"
)

// DefaultSessionID is used when a scenario does not name one.
const DefaultSessionID = "test-session"

// Scenario is one graph test case.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// SessionID fixes the session id stamped into operation ids.
	SessionID string `yaml:"session_id,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated against the final graph.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one star operation.
type Step struct {
	Anchor string `yaml:"anchor"`

	// Targets may contain null entries, which behave like "".
	Targets []*string `yaml:"targets"`

	// ExpectError is a rejection reason (e.g. "single_node") or
	// "invalid_argument" to accept any rejection.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectKind is the expected classification of an accepted step.
	ExpectKind string `yaml:"expect_kind,omitempty"`
}

// TargetStrings returns the targets with null entries mapped to "".
func (s Step) TargetStrings() []string {
	out := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		if t != nil {
			out[i] = *t
		}
	}
	return out
}

// Assertion checks the final graph.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is used by connection_count.
	Count *int `yaml:"count,omitempty"`

	// From and To are used by connected and not_connected.
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Node and Members are used by component.
	Node    string   `yaml:"node,omitempty"`
	Members []string `yaml:"members,omitempty"`

	// Connections is used by connections, in "from - to" form.
	Connections []string `yaml:"connections,omitempty"`
}

// Assertion type constants.
const (
	AssertConnectionCount = "connection_count"
	AssertConnected       = "connected"
	AssertNotConnected    = "not_connected"
	AssertComponent       = "component"
	AssertConnections     = "connections"
)

// ExpectInvalidArgument accepts any rejection reason.
const ExpectInvalidArgument = "invalid_argument"

var knownReasons = map[string]bool{
	ExpectInvalidArgument:           true,
	string(graph.ReasonEmptyAnchor):  true,
	string(graph.ReasonNoTargets):    true,
	string(graph.ReasonBlankTargets): true,
	string(graph.ReasonSingleNode):   true,
}

var knownKinds = map[string]bool{
	string(graph.MergeFresh):  true,
	string(graph.MergeExtend): true,
	string(graph.MergeBridge): true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file is missing, malformed, contains unknown
// fields (typos) or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.ExpectError != "" && !knownReasons[step.ExpectError] {
			return fmt.Errorf("steps[%d]: unknown expect_error %q", i, step.ExpectError)
		}
		if step.ExpectKind != "" && !knownKinds[step.ExpectKind] {
			return fmt.Errorf("steps[%d]: unknown expect_kind %q", i, step.ExpectKind)
		}
		if step.ExpectError != "" && step.ExpectKind != "" {
			return fmt.Errorf("steps[%d]: expect_error and expect_kind are exclusive", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertConnectionCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for connection_count", index)
		}
	case AssertConnected, AssertNotConnected:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("assertions[%d]: from and to are required for %s", index, a.Type)
		}
	case AssertComponent:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for component", index)
		}
	case AssertConnections:
		// An empty list asserts an empty graph.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

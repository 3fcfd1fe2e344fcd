package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Popov85/challenge-graph/internal/graph"
)

// GraphView is the read side of the graph that assertions inspect.
// Implemented by *engine.Engine and *graph.Graph.
type GraphView interface {
	Connections() []graph.Connection
	Component(node string) ([]string, bool)
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion and returns failure messages.
func EvaluateAssertions(result *Result, view GraphView, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, view, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, view GraphView, a Assertion) error {
	switch a.Type {
	case AssertConnectionCount:
		return assertConnectionCount(result.Connections, a)
	case AssertConnected:
		return assertConnected(result.Connections, a, true)
	case AssertNotConnected:
		return assertConnected(result.Connections, a, false)
	case AssertComponent:
		return assertComponent(view, a)
	case AssertConnections:
		return assertConnections(result.Connections, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertConnectionCount(conns []graph.Connection, a Assertion) error {
	if a.Count == nil {
		return fmt.Errorf("connection_count requires count")
	}
	if len(conns) != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d connections", *a.Count),
			Actual:   fmt.Sprintf("%d connections", len(conns)),
		}
	}
	return nil
}

func assertConnected(conns []graph.Connection, a Assertion, want bool) error {
	target := graph.Connection{From: a.From, To: a.To}
	_, found := slices.BinarySearchFunc(conns, target, graph.CompareConnections)
	if found == want {
		return nil
	}

	expected, actual := "present", "absent"
	if !want {
		expected, actual = actual, expected
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%q %s", target.String(), expected),
		Actual:   actual,
	}
}

func assertComponent(view GraphView, a Assertion) error {
	members, ok := view.Component(a.Node)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("component of %s = %v", a.Node, a.Members),
			Actual:   "unknown node",
		}
	}

	expected := slices.Clone(a.Members)
	slices.Sort(expected)
	expected = slices.Compact(expected)
	if !slices.Equal(members, expected) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%v", expected),
			Actual:   fmt.Sprintf("%v", members),
		}
	}
	return nil
}

func assertConnections(conns []graph.Connection, a Assertion) error {
	actual := FormatConnections(conns)

	expected := slices.Clone(a.Connections)
	for i, c := range expected {
		expected[i] = normalizeConnection(c)
	}
	slices.Sort(expected)

	if !slices.Equal(actual, expected) {
		return &AssertionError{
			Type:     a.Type,
			Expected: "[" + strings.Join(expected, ", ") + "]",
			Actual:   "[" + strings.Join(actual, ", ") + "]",
		}
	}
	return nil
}

// FormatConnections renders connections in "from - to" form, keeping order.
func FormatConnections(conns []graph.Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.String()
	}
	return out
}

// normalizeConnection collapses spacing around the separator so "A-B" and
// "A - B" are the same assertion.
func normalizeConnection(s string) string {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return strings.TrimSpace(s)
	}
	return graph.Connection{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}.String()
}

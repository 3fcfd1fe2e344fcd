package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_NullTargets(t *testing.T) {
	s := mustParse(t, `
name: nulls
description: "null entries"
steps:
  - anchor: A
    targets: [B, null, ~, ""]
`)
	require.Len(t, s.Steps, 1)
	require.Len(t, s.Steps[0].Targets, 4)
	assert.NotNil(t, s.Steps[0].Targets[0])
	assert.Nil(t, s.Steps[0].Targets[1])
	assert.Nil(t, s.Steps[0].Targets[2])
	assert.Equal(t, []string{"B", "", "", ""}, s.Steps[0].TargetStrings())
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nstep: []\n",
			message: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: y\nsteps: [{anchor: A, targets: [B]}]\n",
			message: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nsteps: [{anchor: A, targets: [B]}]\n",
			message: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: y\n",
			message: "steps list is required",
		},
		{
			name:    "unknown reason",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [A], expect_error: oops}]\n",
			message: `unknown expect_error "oops"`,
		},
		{
			name:    "unknown kind",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B], expect_kind: merge}]\n",
			message: `unknown expect_kind "merge"`,
		},
		{
			name:    "both expectations",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B], expect_kind: fresh, expect_error: single_node}]\n",
			message: "exclusive",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B]}]\nassertions: [{type: edges}]\n",
			message: `unknown assertion type "edges"`,
		},
		{
			name:    "count missing",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B]}]\nassertions: [{type: connection_count}]\n",
			message: "count is required",
		},
		{
			name:    "connected without to",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B]}]\nassertions: [{type: connected, from: A}]\n",
			message: "from and to are required",
		},
		{
			name:    "component without node",
			yaml:    "name: x\ndescription: y\nsteps: [{anchor: A, targets: [B]}]\nassertions: [{type: component}]\n",
			message: "node is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseScenario_ZeroCountAllowed(t *testing.T) {
	s := mustParse(t, "name: x\ndescription: y\nsteps: [{anchor: A, targets: [A], expect_error: single_node}]\nassertions: [{type: connection_count, count: 0}]\n")
	require.NotNil(t, s.Assertions[0].Count)
	assert.Equal(t, 0, *s.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: disk\ndescription: d\nsteps: [{anchor: A, targets: [B]}]\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "disk", s.Name)
}

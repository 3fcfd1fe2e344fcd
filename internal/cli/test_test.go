package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleScenario = `name: triangle
steps:
  - anchor: A
    targets: [B, C]
    expect_kind: fresh
assertions:
  - type: connection_count
    count: 6
`

const brokenScenario = `name: broken
steps:
  - anchor: A
    targets: [B]
assertions:
  - type: connection_count
    count: 99
`

func writeScenario(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestTestCommand_RepositoryScenarios(t *testing.T) {
	out, _, err := execute(t, "test",
		filepath.Join("..", "harness", "testdata", "scenarios"),
		"--golden-dir", filepath.Join("..", "harness", "testdata", "golden"),
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS late_join")
	assert.Contains(t, out, "0 failed")
}

func TestTestCommand_UpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "triangle.yaml", triangleScenario)

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS triangle (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "triangle.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario":"triangle"`)

	out, _, err = execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "match", resp.Data.Scenarios[0].Golden)
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "triangle.yaml", triangleScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "triangle.golden"), []byte("{}"), 0o644))

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL triangle")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommand_MissingGoldenUsesAssertions(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "triangle.yaml", triangleScenario)
	writeScenario(t, dir, "broken.yml", brokenScenario)

	out, _, err := execute(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "triangle.yaml", triangleScenario)
	writeScenario(t, dir, "broken.yaml", brokenScenario)

	out, _, err := execute(t, "test", dir, "--filter", "tri*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "bad.yaml", "name: [unterminated")

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL bad.yaml")
}

func TestTestCommand_CommandErrors(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "test", t.TempDir(), "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "0 passed, 0 failed, 0 total")
}

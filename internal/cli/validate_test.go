package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand_Valid(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \"127.0.0.1:9000\"\nlog:\n  level: debug\n")

	out, _, err := execute(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid (addr 127.0.0.1:9000, log debug/text")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	path := writeConfig(t, "journal:\n  path: ./graphd.db\n")

	out, _, err := execute(t, "validate", "--config", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Valid)
	require.NotNil(t, resp.Data.Config)
	assert.Equal(t, "./graphd.db", resp.Data.Config.Journal.Path)
}

func TestValidateCommand_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"bad addr", "server:\n  addr: nowhere\n"},
		{"unknown key", "serve:\n  addr: \":1\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "validate", "--config", writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "E_CONFIG")
		})
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

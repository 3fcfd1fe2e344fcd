package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/record"
	"github.com/Popov85/challenge-graph/internal/store"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// seedJournal journals three operations in session "s1":
// A -> [B C] (fresh), X -> [Y] (fresh), C -> [Y] (bridge).
func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphd.db")

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	e := engine.New(
		engine.WithJournal(st),
		engine.WithSessionID("s1"),
		engine.WithRequestIDs(engine.NewFixedGenerator("req-1", "req-2", "req-3")),
		engine.WithLogger(quietLogger),
	)
	ctx := context.Background()
	require.NoError(t, e.Start(ctx))

	_, err = e.Apply(ctx, "A", []string{"B", "C"})
	require.NoError(t, err)
	_, err = e.Apply(ctx, "X", []string{"Y"})
	require.NoError(t, err)
	_, err = e.Apply(ctx, "C", []string{"Y"})
	require.NoError(t, err)

	return path
}

func TestReplayCommand_Text(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "replay", "--db", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "# session s1: 3 operations, 5 nodes, 20 connections, 1 components", lines[0])
	assert.Equal(t, "A - B", lines[1])
	assert.Equal(t, "Y - X", lines[20])
}

func TestReplayCommand_JSON(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "replay", "--db", path, "--session", "s1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "s1", resp.Data.SessionID)
	assert.Equal(t, 3, resp.Data.Operations)
	assert.True(t, resp.Data.Deterministic)
	assert.Equal(t, 20, resp.Data.Stats.Connections)
	require.Len(t, resp.Data.Connections, 20)
	assert.Equal(t, "A", resp.Data.Connections[0].From)
}

func TestReplayCommand_MissingJournal(t *testing.T) {
	out, _, err := execute(t, "replay", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E_JOURNAL")
}

func TestReplayCommand_EmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, _, err = execute(t, "replay", "--db", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no sessions")
}

func TestReplayCommand_UnknownSession(t *testing.T) {
	path := seedJournal(t)

	_, _, err := execute(t, "replay", "--db", path, "--session", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommand_Diverged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forged.db")
	st, err := store.Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, st.WriteSession(ctx, store.Session{ID: "s1", EngineVersion: record.EngineVersion}))
	op := record.Operation{
		Seq:           1,
		SessionID:     "s1",
		RequestID:     "req-1",
		Anchor:        "A",
		Targets:       []string{"B"},
		Kind:          "extend",
		Added:         2,
		EngineVersion: record.EngineVersion,
	}
	op.ID = record.MustOperationID(op.SessionID, op.Seq, op.Anchor, op.Targets)
	require.NoError(t, st.WriteOperation(ctx, op))
	require.NoError(t, st.Close())

	out, _, err := execute(t, "replay", "--db", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, engine.IsReplayError(err))
	assert.Contains(t, out, "E_REPLAY")
}

func TestReplayCommand_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}

func TestTraceCommand_Session(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "trace", "--db", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Session: s1")
	assert.Contains(t, out, "#1    fresh  A -> [B, C] +6")
	assert.Contains(t, out, "#2    fresh  X -> [Y] +2")
	assert.Contains(t, out, "#3    bridge C -> [Y] +12")
	assert.Contains(t, out, "Stats: 3 operations (2 fresh, 0 extend, 1 bridge), 20 connections added")
	assert.NotContains(t, out, "request=")
}

func TestTraceCommand_VerboseShowsIDs(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "trace", "--db", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "request=req-2")
}

func TestTraceCommand_Request(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "trace", "--db", path, "--request", "req-3", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "req-3", resp.Data.RequestID)
	require.Len(t, resp.Data.Timeline, 1)
	assert.Equal(t, "bridge", resp.Data.Timeline[0].Kind)
	assert.Equal(t, TraceStats{Operations: 1, Bridge: 1, Added: 12}, resp.Data.Stats)
}

func TestTraceCommand_UnknownRequest(t *testing.T) {
	path := seedJournal(t)

	out, _, err := execute(t, "trace", "--db", path, "--request", "req-404")
	require.NoError(t, err)
	assert.Contains(t, out, "No operations found.")
}

func TestTraceCommand_ExclusiveFlags(t *testing.T) {
	path := seedJournal(t)

	_, _, err := execute(t, "trace", "--db", path, "--session", "s1", "--request", "req-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSummarize(t *testing.T) {
	ops := []record.Operation{
		{Kind: "fresh", Added: 2},
		{Kind: "extend", Added: 4},
		{Kind: "extend", Added: 6},
	}
	assert.Equal(t, TraceStats{Operations: 3, Fresh: 1, Extend: 2, Added: 12}, summarize(ops))
}

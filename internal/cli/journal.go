package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Popov85/challenge-graph/internal/store"
)

// openJournal opens an existing journal. Unlike store.Open it refuses to
// create a new database, so a mistyped path is a command error.
func openJournal(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "journal not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

// resolveSession returns sessionID, or the latest session when empty.
func resolveSession(ctx context.Context, st *store.Store, sessionID string) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	sess, err := st.LatestSession(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", NewExitError(ExitCommandError, "journal has no sessions")
	}
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read sessions", err)
	}
	return sess.ID, nil
}

// exitErrorCode maps an ExitError to the JSON error code of a command.
func exitErrorCode(err error, fallback string) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		return ErrCodeJournal
	}
	return fallback
}

// reportError writes err through the formatter and returns it unchanged.
func reportError(f *OutputFormatter, err error, fallback string) error {
	if outErr := f.Error(exitErrorCode(err, fallback), err.Error(), nil); outErr != nil {
		return fmt.Errorf("write output: %w", outErr)
	}
	return err
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/internship-outreach/internal/types"
)

var errEmptySheet = errors.New("spreadsheet has no rows")

type errMissingColumn string

func (e errMissingColumn) Error() string {
	return fmt.Sprintf("required column %q not found in header", string(e))
}

// recordState is the persisted slice of a CompanyRecord. Only outcome fields
// are stored; contact details always come from the spreadsheet.
type recordState struct {
	Status       types.Status `json:"status"`
	Attempts     int          `json:"attempts"`
	LastError    string       `json:"last_error,omitempty"`
	NonRetryable bool         `json:"non_retryable,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func readState(path string) (map[string]recordState, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: path, Cause: err}
	}
	var state map[string]recordState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return state, nil
}

// writeState persists the state map atomically: write a sibling temp file,
// then rename over the target.
func writeState(path string, state map[string]recordState) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: create state dir: %w", err)
	}

	now := time.Now().UTC()
	for id, st := range state {
		if st.UpdatedAt.IsZero() {
			st.UpdatedAt = now
			state[id] = st
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: replace state: %w", err)
	}
	return nil
}

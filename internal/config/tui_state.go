package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
// It is best effort: callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	// View is one of: dashboard|tasks|categories
	View string `json:"view,omitempty"`

	CategoryFilter string `json:"categoryFilter,omitempty"`
	PriorityFilter string `json:"priorityFilter,omitempty"`
	StatusFilter   string `json:"statusFilter,omitempty"`
}

func tuiStatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	path, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	path, err := tuiStatePath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "tui_state.json.*.tmp", path, b, 0o644)
}

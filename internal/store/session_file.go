package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/macracrm/macra-crm/internal/entity"
)

// SessionState is the durable slice of the session store: the user record and
// the authenticated flag under one namespaced file. Credentials are never
// part of it.
type SessionState struct {
	User          *entity.User `json:"user"`
	Authenticated bool         `json:"isAuthenticated"`
}

// SessionFile reads and writes the session state at a fixed path.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load returns nil state (not an error) when no file exists yet.
func (f *SessionFile) Load() (*SessionState, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &state, nil
}

func (f *SessionFile) Save(state SessionState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

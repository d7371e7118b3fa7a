// Copyright 2026 The Plantwatch Authors
// SPDX-License-Identifier: Apache-2.0

package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plantwatch-project/plantwatch/lib/secret"
	"github.com/plantwatch-project/plantwatch/monitoring"
)

// storedSession is the on-disk shape of a persisted session.
type storedSession struct {
	// AccessToken is the bearer token proving the user's identity.
	AccessToken string `json:"access_token"`

	// User is the profile returned at login time. Cached so the
	// console can render identity and gate views before the first
	// round-trip validates the token.
	User monitoring.UserProfile `json:"user"`
}

// Store reads and writes the session file at a fixed path.
type Store struct {
	path string
}

// New returns a store backed by the given file path. An empty path
// selects the default location (see DefaultPath).
func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the file path this store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath returns the well-known session file location. Checks
// the PLANTWATCH_SESSION_FILE environment variable first, then falls
// back to ~/.config/plantwatch/session.json.
func DefaultPath() string {
	if envPath := os.Getenv("PLANTWATCH_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "plantwatch-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "plantwatch", "session.json")
}

// Load reads the stored session. ok is false when no usable session
// exists: file missing, unreadable, unparseable, or missing its token
// or user. A corrupt file is treated as absent, not as an error — the
// caller falls back to an unauthenticated session.
func (s *Store) Load() (token string, user *monitoring.UserProfile, ok bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, false
	}
	defer secret.Zero(data)

	var session storedSession
	if err := json.Unmarshal(data, &session); err != nil {
		return "", nil, false
	}
	if session.AccessToken == "" || session.User.UserID == "" {
		return "", nil, false
	}
	return session.AccessToken, &session.User, true
}

// Save writes the session to disk. Creates the parent directory with
// mode 0700 if it doesn't exist; the file itself is written with mode
// 0600 since it contains a bearer token.
func (s *Store) Save(token string, user *monitoring.UserProfile) error {
	data, err := json.MarshalIndent(storedSession{
		AccessToken: token,
		User:        *user,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	writeError := os.WriteFile(s.path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, writeError)
	}
	return nil
}

// Clear removes the session file. Removing an already-absent file is
// not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}

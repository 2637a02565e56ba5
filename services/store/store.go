// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists generated artifacts on the filesystem.
//
// Two separate namespaces: accepted artifacts land under the test root
// mirroring the source package layout, quarantined artifacts land in a flat
// quarantine directory keyed by unit id. Saves overwrite on collision —
// destination keys are deterministic, so a re-run replaces prior output.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore writes accepted artifacts under a test root directory.
type FileStore struct {
	root   string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir (e.g. src/test/java).
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{root: dir, logger: logger}
}

// Save writes text at the destination key, creating parent directories.
func (s *FileStore) Save(destinationKey, text string) error {
	path := filepath.Join(s.root, filepath.FromSlash(destinationKey))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0640); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	s.logger.Info("Saved artifact", slog.String("path", path))
	return nil
}

// Root returns the store's root directory.
func (s *FileStore) Root() string { return s.root }

// FileQuarantine writes exhausted artifacts into a flat directory, one file
// per unit id.
type FileQuarantine struct {
	root   string
	logger *slog.Logger
}

// NewFileQuarantine creates a quarantine rooted at dir.
func NewFileQuarantine(dir string, logger *slog.Logger) *FileQuarantine {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileQuarantine{root: dir, logger: logger}
}

// Save writes the best-effort text for a unit that exhausted its retries.
func (q *FileQuarantine) Save(unitID, text string) error {
	if err := os.MkdirAll(q.root, 0750); err != nil {
		return fmt.Errorf("create quarantine directory: %w", err)
	}
	path := filepath.Join(q.root, unitID+".java")
	if err := os.WriteFile(path, []byte(text), 0640); err != nil {
		return fmt.Errorf("write quarantined artifact: %w", err)
	}
	q.logger.Warn("Quarantined artifact", slog.String("path", path))
	return nil
}

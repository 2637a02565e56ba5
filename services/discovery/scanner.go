// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package discovery turns project sources and endpoint descriptors into the
// uniform SourceUnit shape the engine consumes. Discovery is a collaborator
// of the engine, not part of it: the engine never touches the filesystem.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/testforge-ai/testforge/services/engine"
)

var packagePattern = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+);`)

// DetectRoot walks up from start until it finds a directory containing the
// build manifest (pom.xml).
func DetectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "pom.xml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("pom.xml not found above %s", start)
		}
		dir = parent
	}
}

// Scanner discovers source units under a project root.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// NewScanner creates a scanner for the given project root.
func NewScanner(root string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{root: root, logger: logger}
}

// Scan reads every main-tree source file into a SourceUnit.
//
// Files already under a test directory are skipped. Units are returned in
// walk order, which is deterministic for a given tree.
func (s *Scanner) Scan() ([]engine.SourceUnit, error) {
	javaRoot := filepath.Join(s.root, "src", "main", "java")
	var units []engine.SourceUnit

	err := filepath.WalkDir(javaRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".java") {
			return nil
		}
		if underTestDir(path) {
			return nil
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		unit := engine.SourceUnit{
			Path:      path,
			Package:   declaredPackage(string(text)),
			Component: strings.TrimSuffix(d.Name(), ".java"),
			Kind:      Classify(string(text)),
			Text:      string(text),
		}
		units = append(units, unit)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Discovered source units",
		slog.String("root", s.root),
		slog.Int("units", len(units)),
	)
	return units, nil
}

// Classify determines a unit's component kind from its annotations.
func Classify(text string) engine.ComponentKind {
	switch {
	case strings.Contains(text, "@RestController") || strings.Contains(text, "@Controller"):
		return engine.KindController
	case strings.Contains(text, "@Service"):
		return engine.KindService
	case strings.Contains(text, "@Repository") || strings.Contains(text, "extends JpaRepository"):
		return engine.KindRepository
	case strings.Contains(text, "@Entity") || strings.Contains(text, "@Data"):
		return engine.KindModel
	default:
		return engine.KindUnknown
	}
}

func declaredPackage(text string) string {
	if m := packagePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func underTestDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(part, "test") {
			return true
		}
	}
	return false
}

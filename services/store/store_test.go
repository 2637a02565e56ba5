// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileStore_Save(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, testLogger())

	key := "com/example/orders/OrderControllerTest.java"
	if err := s.Save(key, "public class OrderControllerTest {}"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "com", "example", "orders", "OrderControllerTest.java"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(data) != "public class OrderControllerTest {}" {
		t.Errorf("artifact = %q", data)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, testLogger())

	key := "com/example/OrderTest.java"
	if err := s.Save(key, "first"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := s.Save(key, "second"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "com", "example", "OrderTest.java"))
	if string(data) != "second" {
		t.Errorf("artifact = %q, want second", data)
	}
}

func TestFileStore_Root(t *testing.T) {
	s := NewFileStore("generated_tests", testLogger())
	if s.Root() != "generated_tests" {
		t.Errorf("Root() = %q", s.Root())
	}
}

func TestFileQuarantine_Save(t *testing.T) {
	dir := t.TempDir()
	q := NewFileQuarantine(dir, testLogger())

	if err := q.Save("com.example.orders.OrderController", "// best effort"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Quarantine is flat: unit id plus extension, no subdirectories.
	data, err := os.ReadFile(filepath.Join(dir, "com.example.orders.OrderController.java"))
	if err != nil {
		t.Fatalf("quarantined artifact not written: %v", err)
	}
	if string(data) != "// best effort" {
		t.Errorf("artifact = %q", data)
	}
}

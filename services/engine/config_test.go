// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", cfg.Model)
	}
	if cfg.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", cfg.Temperature)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.SnippetCap != 3 {
		t.Errorf("SnippetCap = %d, want 3", cfg.SnippetCap)
	}
	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Error("SystemPrompt does not match DefaultSystemPrompt")
	}
	if len(cfg.Rules.Required) == 0 || len(cfg.Rules.Forbidden) == 0 {
		t.Error("Rules are empty, want the Spring rule set")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("corrects empty model", func(t *testing.T) {
		cfg := Config{}
		cfg.Validate()
		if cfg.Model != "gpt-4o-mini" {
			t.Errorf("Model = %q, want gpt-4o-mini", cfg.Model)
		}
	})

	t.Run("clamps temperature low", func(t *testing.T) {
		cfg := Config{Temperature: -1}
		cfg.Validate()
		if cfg.Temperature != 0 {
			t.Errorf("Temperature = %v, want 0", cfg.Temperature)
		}
	})

	t.Run("clamps temperature high", func(t *testing.T) {
		cfg := Config{Temperature: 3}
		cfg.Validate()
		if cfg.Temperature != 2 {
			t.Errorf("Temperature = %v, want 2", cfg.Temperature)
		}
	})

	t.Run("corrects invalid MaxAttempts", func(t *testing.T) {
		cfg := Config{MaxAttempts: 0}
		cfg.Validate()
		if cfg.MaxAttempts != 1 {
			t.Errorf("MaxAttempts = %d, want 1", cfg.MaxAttempts)
		}
	})

	t.Run("corrects invalid SnippetCap", func(t *testing.T) {
		cfg := Config{SnippetCap: -5}
		cfg.Validate()
		if cfg.SnippetCap != 1 {
			t.Errorf("SnippetCap = %d, want 1", cfg.SnippetCap)
		}
	})

	t.Run("restores empty rule set", func(t *testing.T) {
		cfg := Config{}
		cfg.Validate()
		if len(cfg.Rules.Required) == 0 {
			t.Error("Rules.Required is empty after Validate")
		}
	})
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithModel("gpt-4o"),
		WithTemperature(0.7),
		WithMaxAttempts(5),
		WithSnippetCap(2),
		WithSkipKinds(KindModel),
	)

	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.SnippetCap != 2 {
		t.Errorf("SnippetCap = %d, want 2", cfg.SnippetCap)
	}
	if len(cfg.SkipKinds) != 1 || cfg.SkipKinds[0] != KindModel {
		t.Errorf("SkipKinds = %v, want [model]", cfg.SkipKinds)
	}
}

func TestConfig_ShouldSkip(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		kind ComponentKind
		want bool
	}{
		{KindController, false},
		{KindRepository, false},
		{KindService, true},
		{KindModel, true},
		{KindUnknown, false},
	}

	for _, tt := range tests {
		unit := SourceUnit{Component: "X", Kind: tt.kind}
		if got := cfg.ShouldSkip(unit); got != tt.want {
			t.Errorf("ShouldSkip(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

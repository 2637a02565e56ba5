// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// Config carries every knob the engine needs, injected at construction.
// There is no global configuration and no credential material here;
// credentials belong to the oracle collaborator.
type Config struct {
	// Model identifies the oracle model. Default: gpt-4o-mini.
	Model string

	// Temperature is the oracle sampling temperature. Default: 0.
	Temperature float32

	// MaxAttempts bounds oracle calls per unit. Default: 3.
	MaxAttempts int

	// SnippetCap bounds stored offending snippets per validation.
	// Default: 3.
	SnippetCap int

	// SystemPrompt frames every oracle request.
	// Default: DefaultSystemPrompt.
	SystemPrompt string

	// Rules is the active contract rule set.
	// Default: SpringRuleSet().
	Rules RuleSet

	// SkipKinds lists component kinds excluded from generation.
	// Default: model and service units, matching the target family's
	// controller-and-startup test focus.
	SkipKinds []ComponentKind
}

// Option mutates a Config during NewConfig.
type Option func(*Config)

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Model:        "gpt-4o-mini",
		Temperature:  0,
		MaxAttempts:  3,
		SnippetCap:   3,
		SystemPrompt: DefaultSystemPrompt,
		Rules:        SpringRuleSet(),
		SkipKinds:    []ComponentKind{KindModel, KindService},
	}
}

// NewConfig builds a configuration from defaults plus options.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Validate()
	return cfg
}

// WithModel sets the oracle model identifier.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithTemperature sets the oracle sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithMaxAttempts sets the per-unit attempt budget.
func WithMaxAttempts(n int) Option {
	return func(c *Config) { c.MaxAttempts = n }
}

// WithSnippetCap sets the offending-snippet cap.
func WithSnippetCap(n int) Option {
	return func(c *Config) { c.SnippetCap = n }
}

// WithRules replaces the contract rule set.
func WithRules(rules RuleSet) Option {
	return func(c *Config) { c.Rules = rules }
}

// WithSystemPrompt replaces the oracle system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *Config) { c.SystemPrompt = prompt }
}

// WithSkipKinds replaces the excluded component kinds.
func WithSkipKinds(kinds ...ComponentKind) Option {
	return func(c *Config) { c.SkipKinds = kinds }
}

// Validate corrects out-of-range values in place.
func (c *Config) Validate() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature < 0 {
		c.Temperature = 0
	}
	if c.Temperature > 2 {
		c.Temperature = 2
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.SnippetCap < 1 {
		c.SnippetCap = 1
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if len(c.Rules.Required) == 0 && len(c.Rules.Forbidden) == 0 {
		c.Rules = SpringRuleSet()
	}
}

// ShouldSkip reports whether the unit's kind is excluded from generation.
func (c *Config) ShouldSkip(unit SourceUnit) bool {
	for _, k := range c.SkipKinds {
		if unit.Kind == k {
			return true
		}
	}
	return false
}

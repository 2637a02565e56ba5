// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api exposes contract-validated test generation over HTTP.
//
// The service accepts endpoint descriptors, runs the generation engine and
// reports the per-unit outcomes. Generated artifacts are written to the
// configured output directories on the server.
package api

import (
	"context"
	"log/slog"

	"github.com/testforge-ai/testforge/services/discovery"
	"github.com/testforge-ai/testforge/services/engine"
	"github.com/testforge-ai/testforge/services/store"
)

// ServiceConfig configures the generation service.
type ServiceConfig struct {
	// Engine is the engine configuration applied to every run.
	Engine engine.Config

	// OutDir is where accepted artifacts are written.
	// Default: generated_tests
	OutDir string

	// QuarantineDir is where exhausted artifacts are written.
	// Default: quarantine
	QuarantineDir string
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Engine:        engine.DefaultConfig(),
		OutDir:        "generated_tests",
		QuarantineDir: "quarantine",
	}
}

// Service runs generation on behalf of API callers.
//
// Thread Safety:
//
//	Service is safe for concurrent use; every run builds its own engine and
//	contract model, and the oracle client is safe for concurrent use.
type Service struct {
	cfg     ServiceConfig
	oracle  engine.Oracle
	metrics *Metrics
	logger  *slog.Logger
}

// NewService creates the service. metrics may be nil to disable metrics.
func NewService(cfg ServiceConfig, oracle engine.Oracle, metrics *Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "generated_tests"
	}
	if cfg.QuarantineDir == "" {
		cfg.QuarantineDir = "quarantine"
	}
	cfg.Engine.Validate()
	return &Service{cfg: cfg, oracle: oracle, metrics: metrics, logger: logger}
}

// GenerateFromEndpoints runs the engine over endpoint descriptor units.
func (s *Service) GenerateFromEndpoints(ctx context.Context, descriptors []discovery.EndpointDescriptor) (*engine.Summary, error) {
	units := make([]engine.SourceUnit, 0, len(descriptors))
	for _, d := range descriptors {
		units = append(units, d.ToSourceUnit())
	}

	eng := engine.New(
		s.cfg.Engine,
		s.oracle,
		store.NewFileStore(s.cfg.OutDir, s.logger),
		store.NewFileQuarantine(s.cfg.QuarantineDir, s.logger),
		s.logger,
	)

	summary, err := eng.Run(ctx, units)
	if err != nil {
		s.metrics.ObserveRunError()
		return summary, err
	}
	s.metrics.ObserveSummary(summary)
	return summary, nil
}

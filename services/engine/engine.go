// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Engine composes analysis, generation, repair, validation and persistence
// into one run over a collection of source units.
type Engine struct {
	cfg        Config
	controller *Controller
	logger     *slog.Logger

	// OnResult, when set, is invoked with each unit's terminal result as it
	// is produced. Used by callers to emit one status line per unit.
	OnResult func(UnitResult)
}

// New creates an engine with its collaborators.
func New(cfg Config, oracle Oracle, store ArtifactStore, quarantine Quarantine, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Validate()
	return &Engine{
		cfg:        cfg,
		controller: NewController(cfg, oracle, store, quarantine, logger),
		logger:     logger,
	}
}

// Run processes every unit and returns the run summary.
//
// Description:
//
//	The contract model is built once from ALL units (skipped kinds still
//	contribute facts — an enum declared in a model unit parameterizes the
//	repair of controller artifacts) and shared read-only. Units are then
//	processed one at a time; no failure on one unit terminates the run.
//	Cancellation is coarse-grained: the context is observed between units.
//
// Outputs:
//
//	*Summary - Accepted / exhausted / failed tally with per-unit results.
//	error - ErrNoUnits for an empty collection, or the context error when
//	the run was cancelled; the partial summary is still returned.
func (e *Engine) Run(ctx context.Context, units []SourceUnit) (*Summary, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	model := BuildContractModel(units, e.cfg.Rules, e.logger)
	summary := &Summary{RunID: uuid.NewString()}

	e.logger.Info("Starting generation run",
		slog.String("run_id", summary.RunID),
		slog.Int("units", len(units)),
		slog.String("model", e.cfg.Model),
		slog.Int("max_attempts", e.cfg.MaxAttempts),
	)

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("Run cancelled between units",
				slog.String("run_id", summary.RunID),
				slog.String("next_unit", unit.ID()),
			)
			return summary, err
		}
		if e.cfg.ShouldSkip(unit) {
			e.logger.Info("Skipping unit",
				slog.String("unit", unit.ID()),
				slog.String("kind", string(unit.Kind)),
			)
			continue
		}

		result := e.controller.ProcessUnit(ctx, unit, model)
		switch result.Outcome {
		case OutcomeAccepted:
			summary.Accepted++
		case OutcomeExhausted:
			summary.Exhausted++
		case OutcomeAborted:
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
		if e.OnResult != nil {
			e.OnResult(result)
		}
	}

	e.logger.Info("Run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("accepted", summary.Accepted),
		slog.Int("exhausted", summary.Exhausted),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

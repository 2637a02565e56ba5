// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// =============================================================================
// STATES
// =============================================================================

// RetryState is one state of the per-unit retry loop.
type RetryState int

const (
	// StateGenerating builds the prompt, invokes the oracle and repairs
	// the result into a candidate attempt.
	StateGenerating RetryState = iota

	// StateValidating classifies the candidate against the contract.
	StateValidating

	// StateAccepted is terminal: the artifact validated and was persisted.
	StateAccepted

	// StateExhausted is terminal: the attempt budget ran out.
	StateExhausted

	// StateAborted is terminal: a transport or persistence failure ended
	// the unit.
	StateAborted
)

// String returns the lower-case state name.
func (s RetryState) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateExhausted:
		return "exhausted"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state ends unit processing.
func (s RetryState) IsTerminal() bool {
	return s == StateAccepted || s == StateExhausted || s == StateAborted
}

// retryTransitions is the valid transition table:
//
//	GENERATING → VALIDATING          : candidate attempt produced
//	GENERATING → ABORTED             : oracle transport failure
//	VALIDATING → ACCEPTED            : artifact valid, persisted
//	VALIDATING → GENERATING          : invalid, attempts remain (retry)
//	VALIDATING → EXHAUSTED           : invalid, budget spent
//	VALIDATING → ABORTED             : persistence failure
var retryTransitions = map[RetryState]map[RetryState]bool{
	StateGenerating: {StateValidating: true, StateAborted: true},
	StateValidating: {StateAccepted: true, StateGenerating: true, StateExhausted: true, StateAborted: true},
}

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Oracle is the external text-generation collaborator. It performs no
// retries of its own; retries are owned by the Controller.
type Oracle interface {
	// Generate produces artifact text from system and user instructions,
	// or fails with a transport/authentication error.
	Generate(ctx context.Context, system, user string) (string, error)
}

// ArtifactStore persists accepted artifacts. Save overwrites on collision.
type ArtifactStore interface {
	Save(destinationKey, text string) error
}

// Quarantine persists the best-effort text of units that exhausted all
// retries without validating. Separate namespace from ArtifactStore.
type Quarantine interface {
	Save(unitID, text string) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the bounded generate→fix→validate loop for single units.
//
// The controller never issues more than Config.MaxAttempts oracle calls per
// unit, and feeds only the immediately preceding attempt's violations back
// into the next generation request.
type Controller struct {
	oracle     Oracle
	store      ArtifactStore
	quarantine Quarantine
	cfg        Config
	logger     *slog.Logger
}

// NewController creates a retry controller.
func NewController(cfg Config, oracle Oracle, store ArtifactStore, quarantine Quarantine, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Validate()
	return &Controller{
		oracle:     oracle,
		store:      store,
		quarantine: quarantine,
		cfg:        cfg,
		logger:     logger,
	}
}

// transition moves the loop to the next state, enforcing the table above.
func (c *Controller) transition(current, next RetryState) (RetryState, error) {
	if !retryTransitions[current][next] {
		return current, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current, next)
	}
	return next, nil
}

// ProcessUnit drives one unit to a terminal state.
//
// Description:
//
//	GENERATING builds the prompt (with the previous attempt's violations as
//	feedback after the first attempt), invokes the oracle and repairs the
//	output. VALIDATING accepts, retries or exhausts. Oracle failures are
//	not validation failures: the unit aborts immediately without consuming
//	further attempts and the run moves on.
//
// Inputs:
//
//	ctx - Context for cancellation (checked at each oracle call)
//	unit - The unit to generate an artifact for
//	model - The shared, immutable contract model
//
// Outputs:
//
//	UnitResult - Terminal outcome with the accepted or final attempt
func (c *Controller) ProcessUnit(ctx context.Context, unit SourceUnit, model *ContractModel) UnitResult {
	if ctx == nil {
		return UnitResult{Unit: unit, Outcome: OutcomeAborted, Err: ErrNilContext}
	}

	fixer := NewFixer(model, c.logger)
	state := StateGenerating
	var previous []string
	var attempt *Attempt

	// Distinct messages across attempts; feedback stays most-recent-only,
	// but the exhausted report covers everything that went wrong.
	var accumulated []string
	seen := make(map[string]bool)

	for index := 1; index <= c.cfg.MaxAttempts; index++ {
		// GENERATING
		user := BuildPrompt(unit, model, previous)
		raw, err := c.oracle.Generate(ctx, c.cfg.SystemPrompt, user)
		if err != nil {
			state, _ = c.transition(state, StateAborted)
			c.logger.Error("Oracle call failed, abandoning unit",
				slog.String("unit", unit.ID()),
				slog.Int("attempt", index),
				slog.String("error", err.Error()),
			)
			return UnitResult{Unit: unit, Outcome: OutcomeAborted, Final: attempt,
				Violations: accumulated,
				Err:        fmt.Errorf("%w: %v", ErrOracleTransport, err)}
		}

		fixed := fixer.Apply(ExtractCode(raw))
		attempt = &Attempt{UnitID: unit.ID(), Index: index, RawText: raw, FixedText: fixed}

		// VALIDATING
		state, _ = c.transition(state, StateValidating)
		attempt.Result = Validate(fixed, model.Rules, c.cfg.SnippetCap)

		if attempt.Result.Valid {
			if err := c.store.Save(unit.DestinationKey(), fixed); err != nil {
				state, _ = c.transition(state, StateAborted)
				return UnitResult{Unit: unit, Outcome: OutcomeAborted, Final: attempt,
					Violations: accumulated,
					Err:        fmt.Errorf("%w: %v", ErrPersistence, err)}
			}
			_, _ = c.transition(state, StateAccepted)
			c.logger.Info("Artifact accepted",
				slog.String("unit", unit.ID()),
				slog.Int("attempt", index),
			)
			return UnitResult{Unit: unit, Outcome: OutcomeAccepted, Final: attempt}
		}

		for _, msg := range attempt.Result.Violations {
			if !seen[msg] {
				seen[msg] = true
				accumulated = append(accumulated, msg)
			}
		}

		c.logger.Warn("Artifact rejected",
			slog.String("unit", unit.ID()),
			slog.Int("attempt", index),
			slog.Int("violations", len(attempt.Result.Violations)),
		)

		if index == c.cfg.MaxAttempts {
			break
		}
		// Feedback is most-recent-only, not cumulative.
		previous = attempt.Result.Violations
		state, _ = c.transition(state, StateGenerating)
	}

	// EXHAUSTED
	_, _ = c.transition(state, StateExhausted)
	if err := c.quarantine.Save(unit.ID(), attempt.FixedText); err != nil {
		return UnitResult{Unit: unit, Outcome: OutcomeAborted, Final: attempt,
			Violations: accumulated,
			Err:        fmt.Errorf("%w: %v", ErrPersistence, err)}
	}
	c.logger.Warn("Attempts exhausted, artifact quarantined",
		slog.String("unit", unit.ID()),
		slog.Int("attempts", c.cfg.MaxAttempts),
		slog.Any("violations", accumulated),
	)
	return UnitResult{Unit: unit, Outcome: OutcomeExhausted, Final: attempt, Violations: accumulated}
}

// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine implements the contract-validated generation-and-repair
// loop at the heart of testforge.
//
// The engine extracts contract facts from existing source, asks an external
// oracle to generate test code, mechanically repairs the output against the
// discovered contract, validates it and retries with violation feedback
// until the artifact conforms or the attempt budget is exhausted.
//
// Thread Safety:
//
//	A ContractModel is immutable after Build and safe to share across
//	concurrently processed units. Engine itself processes units one at a
//	time; per-unit state never crosses unit boundaries.
package engine

import (
	"path"
	"strings"
)

// =============================================================================
// SOURCE UNITS
// =============================================================================

// ComponentKind classifies a source unit by its role in the target project.
type ComponentKind string

const (
	KindController ComponentKind = "controller"
	KindService    ComponentKind = "service"
	KindRepository ComponentKind = "repository"
	KindModel      ComponentKind = "model"
	KindUnknown    ComponentKind = "unknown"
)

// SourceUnit is one discovered unit of existing source code.
//
// Units are immutable: they are created at discovery time and only read for
// the remainder of the run.
type SourceUnit struct {
	// Path is the origin of the unit (file path or synthetic descriptor id).
	Path string

	// Package is the declared package of the unit (dot separated).
	Package string

	// Component is the primary type name declared by the unit.
	Component string

	// Kind classifies the component (controller, service, ...).
	Kind ComponentKind

	// Text is the raw source text.
	Text string
}

// ID returns a stable identifier for the unit, used for logging and for the
// quarantine namespace.
func (u SourceUnit) ID() string {
	if u.Package == "" {
		return u.Component
	}
	return u.Package + "." + u.Component
}

// DestinationKey derives the artifact destination for an accepted attempt.
//
// The key mirrors the unit's package as a directory path and appends the
// component name with a fixed Test suffix. Deterministic: the same unit
// always maps to the same key, and a re-run overwrites its prior artifact.
func (u SourceUnit) DestinationKey() string {
	parts := strings.Split(u.Package, ".")
	parts = append(parts, u.Component+"Test.java")
	return path.Join(parts...)
}

// =============================================================================
// ATTEMPTS
// =============================================================================

// Attempt records one iteration of the generate-fix-validate loop.
//
// Attempts are discarded unless they are the accepted or final attempt for
// their unit.
type Attempt struct {
	// UnitID identifies the unit this attempt belongs to.
	UnitID string

	// Index is the 1-based attempt number, bounded by Config.MaxAttempts.
	Index int

	// RawText is the oracle output before any repair.
	RawText string

	// FixedText is the output after the repair pipeline.
	FixedText string

	// Result is the validation outcome for FixedText.
	Result ValidationResult
}

// ValidationResult is the outcome of validating one artifact against the
// contract rule set.
type ValidationResult struct {
	// Valid is true when every required rule matched and no forbidden rule
	// matched.
	Valid bool

	// Violations holds distinct violation messages in first-occurrence order.
	Violations []string

	// OffendingSnippets holds distinct matched substrings of forbidden
	// rules, in first-occurrence order, capped at Config.SnippetCap.
	OffendingSnippets []string

	// TruncatedSnippets counts forbidden matches dropped by the cap.
	TruncatedSnippets int
}

// =============================================================================
// RUN RESULTS
// =============================================================================

// Outcome is the terminal disposition of one unit.
type Outcome int

const (
	// OutcomeAccepted means a valid artifact was persisted to the store.
	OutcomeAccepted Outcome = iota

	// OutcomeExhausted means the attempt budget ran out; the last attempt
	// was persisted to quarantine.
	OutcomeExhausted

	// OutcomeAborted means an oracle transport or persistence failure ended
	// the unit without a terminal artifact decision.
	OutcomeAborted
)

// String returns the lower-case name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// UnitResult is the per-unit record produced by a run.
type UnitResult struct {
	Unit    SourceUnit
	Outcome Outcome

	// Final is the accepted or last attempt. Nil when the unit aborted
	// before any attempt completed.
	Final *Attempt

	// Violations holds the distinct violation messages accumulated across
	// all attempts, in first-occurrence order. Populated for exhausted and
	// aborted units; empty for accepted units.
	Violations []string

	// Err is the unit-fatal error for aborted units.
	Err error
}

// Summary tallies a whole run. One Summary is produced per Engine.Run call.
type Summary struct {
	// RunID uniquely identifies the run.
	RunID string

	// Accepted, Exhausted and Failed count terminal unit dispositions.
	Accepted  int
	Exhausted int
	Failed    int

	// Results holds the per-unit records in processing order.
	Results []UnitResult
}

// Total returns the number of units processed.
func (s *Summary) Total() int {
	return s.Accepted + s.Exhausted + s.Failed
}

// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "log/slog"

// ContractModel is the run-scoped aggregation of extracted facts and the
// active rule set.
//
// A ContractModel is never mutated after BuildContractModel returns, so it
// is safe to share by reference across concurrently processed units.
type ContractModel struct {
	Facts FactSet
	Rules RuleSet
}

// BuildContractModel analyzes all units once and pairs the extracted facts
// with the given rule set. Called exactly once per run.
func BuildContractModel(units []SourceUnit, rules RuleSet, logger *slog.Logger) *ContractModel {
	analyzer := NewAnalyzer(logger)
	return &ContractModel{
		Facts: analyzer.Extract(units),
		Rules: rules,
	}
}

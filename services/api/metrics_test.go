// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/testforge-ai/testforge/services/engine"
)

func TestMetrics_ObserveSummary(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	summary := &engine.Summary{
		Accepted:  1,
		Exhausted: 1,
		Failed:    3,
		Results: []engine.UnitResult{
			{Outcome: engine.OutcomeAccepted, Final: &engine.Attempt{Index: 1}},
			{Outcome: engine.OutcomeExhausted, Final: &engine.Attempt{Index: 3}},
			// Transport failure on the very first call.
			{Outcome: engine.OutcomeAborted, Err: engine.ErrOracleTransport},
			// Transport failure on call 2, after one completed attempt.
			{Outcome: engine.OutcomeAborted, Final: &engine.Attempt{Index: 1}, Err: engine.ErrOracleTransport},
			// Persistence failure; its one oracle call completed normally.
			{Outcome: engine.OutcomeAborted, Final: &engine.Attempt{Index: 1}, Err: engine.ErrPersistence},
		},
	}
	m.ObserveSummary(summary)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("exhausted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("aborted")))
	// 1 accepted + 3 exhausted + 1 failing-only + (1 completed + 1 failing)
	// + 1 before the persistence failure.
	assert.Equal(t, 8.0, testutil.ToFloat64(m.OracleCallsTotal))
}

func TestMetrics_ObserveRunError(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveRunError()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
}

// Nil metrics must be safe: the service runs without a registry in the CLI.
func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.ObserveSummary(&engine.Summary{})
	m.ObserveRunError()
}

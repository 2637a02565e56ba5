// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/testforge-ai/testforge/services/engine"
)

const metricsNamespace = "testforge"

// Metrics holds the Prometheus instruments for generation runs.
//
// All operations are thread-safe via Prometheus's internal locking.
type Metrics struct {
	// RunsTotal counts generation runs by status (success, error).
	RunsTotal *prometheus.CounterVec

	// UnitsTotal counts processed units by terminal outcome
	// (accepted, exhausted, aborted).
	UnitsTotal *prometheus.CounterVec

	// OracleCallsTotal counts oracle invocations across all units,
	// including the failing call of an aborted unit.
	OracleCallsTotal prometheus.Counter

	// AttemptsPerUnit observes how many oracle attempts each unit took.
	AttemptsPerUnit prometheus.Histogram
}

// NewMetrics registers the testforge metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Generation runs by status.",
		}, []string{"status"}),
		UnitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "units_total",
			Help:      "Processed source units by terminal outcome.",
		}, []string{"outcome"}),
		OracleCallsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "oracle_calls_total",
			Help:      "Oracle invocations across all units.",
		}),
		AttemptsPerUnit: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_per_unit",
			Help:      "Oracle attempts consumed per unit.",
			Buckets:   prometheus.LinearBuckets(1, 1, 5),
		}),
	}
}

// ObserveSummary records one run's outcome tallies.
func (m *Metrics) ObserveSummary(summary *engine.Summary) {
	if m == nil || summary == nil {
		return
	}
	m.RunsTotal.WithLabelValues("success").Inc()
	for _, res := range summary.Results {
		m.UnitsTotal.WithLabelValues(res.Outcome.String()).Inc()
		calls := 0
		if res.Final != nil {
			calls = res.Final.Index
			m.AttemptsPerUnit.Observe(float64(res.Final.Index))
		}
		if errors.Is(res.Err, engine.ErrOracleTransport) {
			// The failing call happened after the last completed attempt,
			// so Final.Index does not cover it.
			calls++
		}
		if calls > 0 {
			m.OracleCallsTotal.Add(float64(calls))
		}
	}
}

// ObserveRunError records a run that failed before producing a summary.
func (m *Metrics) ObserveRunError() {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues("error").Inc()
}

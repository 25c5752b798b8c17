/*
Copyright 2026 The Horizon Autoscaler Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package measure exposes Prometheus instrumentation for the autoscaler's reconcile loop.
package measure

import (
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess marks a reconcile that produced a decision.
	OutcomeSuccess = "success"
	// OutcomeNoValidMetrics marks a reconcile where every metric was unavailable and replicas were held.
	OutcomeNoValidMetrics = "no_valid_metrics"
	// OutcomeError marks a reconcile that failed before a decision could be applied.
	OutcomeError = "error"
)

const (
	constraintPolicy        = "policy"
	constraintStabilization = "stabilization"
	constraintBound         = "bound"
)

var (
	ReconcileCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "autoscaler",
			Name:      "reconcile_total",
			Help:      "The count of reconciles, partitioned by outcome",
		},
		[]string{"namespace", "name", "outcome"},
	)
	DesiredReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "horizon",
			Subsystem: "autoscaler",
			Name:      "desired_replicas",
			Help:      "The replica count the last decision settled on",
		},
		[]string{"namespace", "name"},
	)
	CurrentReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "horizon",
			Subsystem: "autoscaler",
			Name:      "current_replicas",
			Help:      "The replica count observed at the last reconcile",
		},
		[]string{"namespace", "name"},
	)
	DecisionLimitedCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "autoscaler",
			Name:      "decision_limited_total",
			Help:      "The count of decisions that were held back, partitioned by the constraint that applied",
		},
		[]string{"namespace", "name", "constraint"},
	)
	ReconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "horizon",
			Subsystem: "autoscaler",
			Name:      "reconcile_duration_seconds",
			Help:      "Time taken to gather metrics, decide and apply scaling for a target",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"namespace", "name"},
	)
)

// NewRegistry creates a Prometheus registry with all of the autoscaler's collectors registered.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(ReconcileCount, DesiredReplicas, CurrentReplicas, DecisionLimitedCount, ReconcileDuration)
	return registry
}

// ObserveDecision records the gauges and constraint counters for a decision made for the target provided.
func ObserveDecision(namespace string, name string, decision *evaluate.Decision) {
	DesiredReplicas.WithLabelValues(namespace, name).Set(float64(decision.DesiredReplicas))
	CurrentReplicas.WithLabelValues(namespace, name).Set(float64(decision.CurrentReplicas))
	if decision.LimitedByPolicy {
		DecisionLimitedCount.WithLabelValues(namespace, name, constraintPolicy).Inc()
	}
	if decision.LimitedByStabilization {
		DecisionLimitedCount.WithLabelValues(namespace, name, constraintStabilization).Inc()
	}
	if decision.ClampedAtBound != evaluate.NoBound {
		DecisionLimitedCount.WithLabelValues(namespace, name, constraintBound).Inc()
	}
}

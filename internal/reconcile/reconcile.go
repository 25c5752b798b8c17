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

// Package reconcile implements the replica decision algorithm: normalize each metric snapshot to a usage
// ratio, compute a candidate count per metric, take the largest, bound the step with the behavior
// policies, filter it through the stabilization windows, clamp to the replica bounds and emit a decision.
// Evaluate is a pure function of its inputs and the target's history; Engine wraps it with per-target
// state ownership and serialization.
package reconcile

import (
	"time"

	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/behavior"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
	"github.com/horizonscale/horizon-autoscaler/internal/normalize"
	"github.com/horizonscale/horizon-autoscaler/internal/policylimit"
	"github.com/horizonscale/horizon-autoscaler/internal/replicacalc"
	"github.com/horizonscale/horizon-autoscaler/internal/stabilize"
	"github.com/horizonscale/horizon-autoscaler/metric"
)

// Input is everything one reconcile tick needs, resolved by collaborators before the algorithm runs.
// Snapshots are consumed read-only.
type Input struct {
	Target          string
	CurrentReplicas int32
	Snapshots       []*metric.Snapshot
	MinReplicas     int32
	MaxReplicas     int32
	Behavior        *behavior.Behavior
	Tolerance       float64
	Now             time.Time
}

// Evaluate runs the decision algorithm for one tick against the history provided, mutating the history
// (recommendation recorded, stale entries pruned). It always returns a decision; the error reports a
// degraded tick (every metric invalid) in which case the decision holds the current replica count.
func Evaluate(in Input, targetHistory *history.History) (*evaluate.Decision, error) {
	upRules := in.Behavior.UpRules()
	downRules := in.Behavior.DownRules()

	targetHistory.PruneEvents(in.Now,
		time.Duration(upRules.LongestPeriodSeconds())*time.Second,
		time.Duration(downRules.LongestPeriodSeconds())*time.Second)

	normalizer := normalize.NewNormalizer()
	var valid []*normalize.Normalized
	for _, snapshot := range in.Snapshots {
		normalized, err := normalizer.Normalize(snapshot, in.CurrentReplicas)
		if err != nil {
			glog.Errorf("Excluding metric from aggregation: %v", err)
			continue
		}
		valid = append(valid, normalized)
	}

	calculator := &replicacalc.Calculator{Tolerance: in.Tolerance}
	desired, applied, err := calculator.Aggregate(in.CurrentReplicas, valid)
	if err != nil {
		// Never scale on no data; hold the current count but still emit an auditable decision
		return &evaluate.Decision{
			DesiredReplicas: in.CurrentReplicas,
			CurrentReplicas: in.CurrentReplicas,
			ClampedAtBound:  evaluate.NoBound,
			Reason:          evaluate.ReasonNoValidMetrics,
			Timestamp:       in.Now,
		}, err
	}

	limited := desired
	limitedByPolicy := false
	reason := evaluate.ReasonDesiredWithinRange
	switch {
	case desired > in.CurrentReplicas:
		result := policylimit.Up(in.CurrentReplicas, desired, upRules, targetHistory.UpEvents, in.Now)
		limited = result.Replicas
		limitedByPolicy = result.Limited
		if result.Disabled {
			reason = evaluate.ReasonScaleUpDisabled
		} else if result.Limited {
			reason = evaluate.ReasonScaleUpLimited
		}
	case desired < in.CurrentReplicas:
		result := policylimit.Down(in.CurrentReplicas, desired, downRules, targetHistory.DownEvents, in.Now)
		limited = result.Replicas
		limitedByPolicy = result.Limited
		if result.Disabled {
			reason = evaluate.ReasonScaleDownDisabled
		} else if result.Limited {
			reason = evaluate.ReasonScaleDownLimited
		}
	}

	stabilized := stabilize.Apply(targetHistory, in.CurrentReplicas, limited,
		time.Duration(*upRules.StabilizationWindowSeconds)*time.Second,
		time.Duration(*downRules.StabilizationWindowSeconds)*time.Second,
		in.Now)
	if stabilized.Stabilized {
		reason = evaluate.ReasonStabilized
	}

	clamped, bound := clamp(stabilized.Replicas, in.MinReplicas, in.MaxReplicas)
	switch bound {
	case evaluate.MinBound:
		reason = evaluate.ReasonTooFewReplicas
	case evaluate.MaxBound:
		reason = evaluate.ReasonTooManyReplicas
	}

	return &evaluate.Decision{
		DesiredReplicas:        clamped,
		CurrentReplicas:        in.CurrentReplicas,
		AppliedMetric:          applied,
		LimitedByPolicy:        limitedByPolicy,
		LimitedByStabilization: stabilized.Stabilized,
		ClampedAtBound:         bound,
		Reason:                 reason,
		Timestamp:              in.Now,
	}, nil
}

func clamp(replicas int32, minReplicas int32, maxReplicas int32) (int32, evaluate.Bound) {
	if replicas < minReplicas {
		return minReplicas, evaluate.MinBound
	}
	if replicas > maxReplicas {
		return maxReplicas, evaluate.MaxBound
	}
	return replicas, evaluate.NoBound
}

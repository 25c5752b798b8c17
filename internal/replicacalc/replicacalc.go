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

// Package replicacalc turns normalized usage ratios into candidate replica counts and aggregates the
// candidates across metrics. Aggregation takes the largest candidate so that a single overloaded
// dimension is always satisfied.
package replicacalc

import (
	"math"

	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/normalize"
)

// Calculator computes desired replica counts from usage ratios, suppressing changes when the ratio is
// within the tolerance band around 1.0 to avoid oscillating on noise.
type Calculator struct {
	Tolerance float64
}

// Replicas applies the scaling formula for a single metric: ceil(currentReplicas * ratio). The ceiling
// guarantees the result never under-provisions relative to the target. Inside the tolerance band the
// current count is kept unchanged. At zero current replicas there is no ratio basis; zero is returned and
// the boundary clamp resolves it via minReplicas.
func (c *Calculator) Replicas(currentReplicas int32, normalized *normalize.Normalized) int32 {
	if currentReplicas == 0 {
		return 0
	}
	if math.Abs(1.0-normalized.Ratio) <= c.Tolerance {
		return currentReplicas
	}
	desired := math.Ceil(normalized.Ratio * float64(currentReplicas))
	// Saturate rather than convert out of range; converting would wrap negative and turn
	// extreme demand into a scale-down. The max replicas clamp resolves the final count.
	if desired >= float64(math.MaxInt32) {
		return math.MaxInt32
	}
	return int32(desired)
}

// Aggregate computes a candidate count for every valid metric and returns the largest, along with a
// description of the metric that produced it. An empty list means every configured metric was invalid
// for this tick; the reconcile must then hold the current count rather than scale on no data.
func (c *Calculator) Aggregate(currentReplicas int32, normalized []*normalize.Normalized) (int32, string, error) {
	if len(normalized) == 0 {
		return 0, "", evaluate.ErrNoValidMetrics
	}

	desired := int32(math.MinInt32)
	applied := ""
	for _, candidate := range normalized {
		replicas := c.Replicas(currentReplicas, candidate)
		glog.V(3).Infof("Metric %s: ratio %f, candidate replicas %d", candidate.Spec.String(), candidate.Ratio, replicas)
		if replicas > desired {
			desired = replicas
			applied = candidate.Spec.String()
		}
	}
	return desired, applied, nil
}

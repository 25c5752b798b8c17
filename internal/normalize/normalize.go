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

// Package normalize converts raw metric snapshots into a single dimensionless usage ratio per metric, the
// ratio of the gathered value to the configured target. A ratio of 1.0 means the target is met exactly,
// above 1.0 suggests scaling up, below 1.0 suggests scaling down.
package normalize

import (
	"time"

	"github.com/horizonscale/horizon-autoscaler/metric"
)

// Normalized is one metric reduced to a comparable ratio against its target.
type Normalized struct {
	Spec metric.Spec `json:"spec"`
	// Ratio is currentValue / targetValue
	Ratio float64 `json:"ratio"`
	// CurrentValue is the gathered milli-value the ratio was derived from; a per-pod mean for averaged
	// targets, the aggregate value for cluster level targets
	CurrentValue int64 `json:"current_value"`
	// CurrentUtilization is the observed percentage of the pod requests, resource utilization targets only
	CurrentUtilization int32     `json:"current_utilization,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// Normalizer reduces metric snapshots to usage ratios.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts the snapshot for a single metric spec into a usage ratio. A snapshot with no
// reporting pods, or no data for the source the spec names, yields an UnavailableError; the metric is
// then excluded from aggregation rather than zeroing out the ratio.
func (n *Normalizer) Normalize(snapshot *metric.Snapshot, currentReplicas int32) (*Normalized, error) {
	if snapshot == nil {
		return nil, &metric.UnavailableError{Metric: "unknown", Reason: "no snapshot gathered"}
	}
	spec := snapshot.Spec
	switch spec.Type {
	case metric.ResourceSourceType:
		if snapshot.Resource == nil {
			return nil, metric.Unavailable(spec, "snapshot carries no resource data")
		}
		return n.normalizeResource(spec, snapshot)
	case metric.PodsSourceType:
		if snapshot.Pods == nil {
			return nil, metric.Unavailable(spec, "snapshot carries no pods data")
		}
		return n.normalizePods(spec, snapshot)
	case metric.ExternalSourceType:
		if snapshot.External == nil {
			return nil, metric.Unavailable(spec, "snapshot carries no external data")
		}
		return n.normalizeExternal(spec, snapshot, currentReplicas)
	default:
		return nil, metric.Unavailable(spec, "unknown metric source type %q", string(spec.Type))
	}
}

func (n *Normalizer) normalizeResource(spec metric.Spec, snapshot *metric.Snapshot) (*Normalized, error) {
	usage := snapshot.Resource.PodUsage
	if len(usage) == 0 {
		return nil, metric.Unavailable(spec, "no pods reported the metric")
	}

	var totalUsage int64
	for _, podUsage := range usage {
		totalUsage += podUsage
	}

	switch spec.Resource.Target.Type {
	case metric.UtilizationTargetType:
		// Utilization is judged against the requests of the reporting pods only; partially reporting
		// fleets average over the pods that did report
		var totalRequests int64
		for pod := range usage {
			request, ok := snapshot.Resource.Requests[pod]
			if !ok {
				return nil, metric.Unavailable(spec, "missing %s request for pod %q", spec.Resource.Name, pod)
			}
			totalRequests += request
		}
		if totalRequests == 0 {
			return nil, metric.Unavailable(spec, "zero %s requested across reporting pods", spec.Resource.Name)
		}
		currentUtilization := int32(float64(totalUsage) * 100 / float64(totalRequests))
		return &Normalized{
			Spec:               spec,
			Ratio:              float64(totalUsage) * 100 / float64(totalRequests) / float64(spec.Resource.Target.AverageUtilization),
			CurrentValue:       totalUsage / int64(len(usage)),
			CurrentUtilization: currentUtilization,
			Timestamp:          snapshot.Timestamp,
		}, nil
	case metric.AverageValueTargetType:
		mean := totalUsage / int64(len(usage))
		return &Normalized{
			Spec:         spec,
			Ratio:        float64(totalUsage) / float64(int64(len(usage))*spec.Resource.Target.Value),
			CurrentValue: mean,
			Timestamp:    snapshot.Timestamp,
		}, nil
	default:
		return nil, metric.Unavailable(spec, "unsupported resource target type %q", string(spec.Resource.Target.Type))
	}
}

func (n *Normalizer) normalizePods(spec metric.Spec, snapshot *metric.Snapshot) (*Normalized, error) {
	values := snapshot.Pods.PodValues
	if len(values) == 0 {
		return nil, metric.Unavailable(spec, "no pods reported the metric")
	}
	if spec.Pods.Target.Type != metric.AverageValueTargetType {
		return nil, metric.Unavailable(spec, "unsupported pods target type %q", string(spec.Pods.Target.Type))
	}

	var total int64
	for _, value := range values {
		total += value
	}
	mean := total / int64(len(values))
	return &Normalized{
		Spec:         spec,
		Ratio:        float64(total) / float64(int64(len(values))*spec.Pods.Target.Value),
		CurrentValue: mean,
		Timestamp:    snapshot.Timestamp,
	}, nil
}

func (n *Normalizer) normalizeExternal(spec metric.Spec, snapshot *metric.Snapshot, currentReplicas int32) (*Normalized, error) {
	value := snapshot.External.Value
	switch spec.External.Target.Type {
	case metric.ValueTargetType:
		return &Normalized{
			Spec:         spec,
			Ratio:        float64(value) / float64(spec.External.Target.Value),
			CurrentValue: value,
			Timestamp:    snapshot.Timestamp,
		}, nil
	case metric.AverageValueTargetType:
		// A target with zero replicas has no per-pod basis; use the aggregate as-is and leave resolving
		// the count to the boundary clamp, which floors at minReplicas
		replicas := currentReplicas
		if replicas < 1 {
			replicas = 1
		}
		perPod := value / int64(replicas)
		return &Normalized{
			Spec:         spec,
			Ratio:        float64(value) / float64(int64(replicas)*spec.External.Target.Value),
			CurrentValue: perPod,
			Timestamp:    snapshot.Timestamp,
		}, nil
	default:
		return nil, metric.Unavailable(spec, "unsupported external target type %q", string(spec.External.Target.Type))
	}
}

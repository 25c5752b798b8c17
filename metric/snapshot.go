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

package metric

import (
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Snapshot is a point-in-time reading for a single metric spec, produced by a gatherer and consumed
// read-only by the reconcile loop. Exactly one of the source fields is set, matching Spec.Type.
type Snapshot struct {
	Spec      Spec              `json:"spec"`
	Resource  *ResourceSnapshot `json:"resource,omitempty"`
	Pods      *PodsSnapshot     `json:"pods,omitempty"`
	External  *ExternalSnapshot `json:"external,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ResourceSnapshot holds per-pod resource usage alongside the pod requests the usage is measured
// against. All values are milli-values. Only pods present in PodUsage reported the metric; MissingPods
// are running pods with no reading, IgnoredPods are pods excluded from averaging (unready, terminating).
type ResourceSnapshot struct {
	PodUsage      map[string]int64 `json:"pod_usage"`
	Requests      map[string]int64 `json:"requests"`
	ReadyPodCount int64            `json:"ready_pod_count"`
	IgnoredPods   sets.String      `json:"ignored_pods,omitempty"`
	MissingPods   sets.String      `json:"missing_pods,omitempty"`
	TotalPods     int              `json:"total_pods"`
}

// PodsSnapshot holds per-pod custom metric values as milli-values.
type PodsSnapshot struct {
	PodValues     map[string]int64 `json:"pod_values"`
	ReadyPodCount int64            `json:"ready_pod_count"`
	IgnoredPods   sets.String      `json:"ignored_pods,omitempty"`
	MissingPods   sets.String      `json:"missing_pods,omitempty"`
	TotalPods     int              `json:"total_pods"`
}

// ExternalSnapshot holds a single already-aggregated milli-value for a metric outside the cluster.
type ExternalSnapshot struct {
	Value int64 `json:"value"`
}

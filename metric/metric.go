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

// Package metric defines the metric specifications the autoscaler can target,
// and the snapshots of gathered values that each reconcile consumes. A spec is
// a tagged union; exactly one of the source fields must be set, matching the
// Type discriminator.
package metric

import (
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SourceType describes where a metric is gathered from.
type SourceType string

const (
	// ResourceSourceType is a resource metric known to Kubernetes (e.g. CPU or memory), as specified in requests
	// and limits, describing each pod in the scale target
	ResourceSourceType SourceType = "Resource"
	// PodsSourceType is a metric describing each pod in the scale target (e.g.
	// transactions-processed-per-second), values are averaged together before being compared to the target
	PodsSourceType SourceType = "Pods"
	// ExternalSourceType is a global metric not associated with any Kubernetes object (e.g. queue length in a
	// cloud messaging service)
	ExternalSourceType SourceType = "External"
)

// TargetType describes how a gathered metric is compared against its target.
type TargetType string

const (
	// UtilizationTargetType targets a percentage of the resource requested by the pods
	UtilizationTargetType TargetType = "Utilization"
	// AverageValueTargetType targets a raw value averaged across the pods
	AverageValueTargetType TargetType = "AverageValue"
	// ValueTargetType targets a raw value compared directly against the metric
	ValueTargetType TargetType = "Value"
)

// Target is the value a gathered metric is compared against. Value is a milli-value (1000 = 1 unit),
// AverageUtilization is a whole percentage of the pod resource requests.
type Target struct {
	Type               TargetType `json:"type"`
	Value              int64      `json:"value,omitempty"`
	AverageUtilization int32      `json:"averageUtilization,omitempty"`
}

// Spec defines a single metric the autoscaler reconciles against.
type Spec struct {
	Type     SourceType      `json:"type"`
	Resource *ResourceSource `json:"resource,omitempty"`
	Pods     *PodsSource     `json:"pods,omitempty"`
	External *ExternalSource `json:"external,omitempty"`
}

// ResourceSource targets a resource metric (CPU/memory) across the pods of the scale target. Supports
// Utilization and AverageValue targets.
type ResourceSource struct {
	Name   corev1.ResourceName `json:"name"`
	Target Target              `json:"target"`
}

// PodsSource targets a custom per-pod metric, averaged across the pods of the scale target. Supports
// AverageValue targets only.
type PodsSource struct {
	Metric string `json:"metric"`
	Target Target `json:"target"`
}

// ExternalSource targets a metric from outside the cluster. Supports Value targets, compared as-is, and
// AverageValue targets, divided by the current replica count before comparison.
type ExternalSource struct {
	Metric   string                `json:"metric"`
	Selector *metav1.LabelSelector `json:"selector,omitempty"`
	Target   Target                `json:"target"`
}

// String returns a human readable description of the metric, used in decisions and logs to report which
// metric determined the scaling result.
func (s Spec) String() string {
	switch s.Type {
	case ResourceSourceType:
		if s.Resource == nil {
			return "malformed resource metric"
		}
		if s.Resource.Target.Type == UtilizationTargetType {
			return fmt.Sprintf("%s resource utilization (percentage of request)", s.Resource.Name)
		}
		return fmt.Sprintf("%s resource", s.Resource.Name)
	case PodsSourceType:
		if s.Pods == nil {
			return "malformed pods metric"
		}
		return fmt.Sprintf("pods metric %s", s.Pods.Metric)
	case ExternalSourceType:
		if s.External == nil {
			return "malformed external metric"
		}
		return fmt.Sprintf("external metric %s", s.External.Metric)
	default:
		return fmt.Sprintf("unknown metric source %q", string(s.Type))
	}
}

// UnavailableError indicates that a single metric's data is missing or unusable for this reconcile. Such a
// metric is excluded from aggregation; the reconcile continues with the remaining metrics.
type UnavailableError struct {
	Metric string
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("metric %q unavailable: %s", e.Metric, e.Reason)
}

// Unavailable builds an UnavailableError for the metric described by the spec provided.
func Unavailable(spec Spec, format string, args ...interface{}) *UnavailableError {
	return &UnavailableError{
		Metric: spec.String(),
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsUnavailable reports whether the error provided is, or wraps, an UnavailableError.
func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}

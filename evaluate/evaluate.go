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

// Package evaluate defines the decision record the reconcile loop emits on every tick, successful or
// degraded, so operators can always see why scaling did or did not happen.
package evaluate

import (
	"errors"
	"time"
)

// ErrNoValidMetrics indicates that every configured metric was invalid for a reconcile. The loop
// degrades to holding the current replica count; it never scales on no data.
var ErrNoValidMetrics = errors.New("no valid metrics available, holding current replica count")

// Bound marks which boundary, if any, clamped the desired replica count.
type Bound string

const (
	// NoBound means the computed target was within [minReplicas, maxReplicas]
	NoBound Bound = "none"
	// MinBound means the computed target was raised to minReplicas
	MinBound Bound = "min"
	// MaxBound means the computed target was lowered to maxReplicas
	MaxBound Bound = "max"
)

// Reason codes attached to decisions explaining the dominant factor behind the result.
const (
	// ReasonDesiredWithinRange means the metric-driven target was applied unchanged
	ReasonDesiredWithinRange = "DesiredWithinAcceptableRange"
	// ReasonScaleUpLimited means a scale up behavior policy bounded the change
	ReasonScaleUpLimited = "ScaleUpLimited"
	// ReasonScaleDownLimited means a scale down behavior policy bounded the change
	ReasonScaleDownLimited = "ScaleDownLimited"
	// ReasonScaleUpDisabled means the scale up direction is disabled by its select policy
	ReasonScaleUpDisabled = "ScaleUpDisabled"
	// ReasonScaleDownDisabled means the scale down direction is disabled by its select policy
	ReasonScaleDownDisabled = "ScaleDownDisabled"
	// ReasonStabilized means a recent recommendation inside a stabilization window overrode this tick's
	// target
	ReasonStabilized = "ScaleStabilized"
	// ReasonTooFewReplicas means the target was clamped up to minReplicas
	ReasonTooFewReplicas = "TooFewReplicas"
	// ReasonTooManyReplicas means the target was clamped down to maxReplicas
	ReasonTooManyReplicas = "TooManyReplicas"
	// ReasonNoValidMetrics means every configured metric was invalid and the current count was held
	ReasonNoValidMetrics = "NoValidMetrics"
)

// Decision is the auditable output of one reconcile. It is created fresh each tick and never mutated
// after emission.
type Decision struct {
	DesiredReplicas        int32     `json:"desiredReplicas"`
	CurrentReplicas        int32     `json:"currentReplicas"`
	AppliedMetric          string    `json:"appliedMetric,omitempty"`
	LimitedByPolicy        bool      `json:"limitedByPolicy"`
	LimitedByStabilization bool      `json:"limitedByStabilization"`
	ClampedAtBound         Bound     `json:"clampedAtBound"`
	Reason                 string    `json:"reason"`
	Timestamp              time.Time `json:"timestamp"`
}

// ScaleChangeRequired reports whether applying the decision would change the replica count.
func (d *Decision) ScaleChangeRequired() bool {
	return d.DesiredReplicas != d.CurrentReplicas
}

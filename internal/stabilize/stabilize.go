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

// Package stabilize dampens flapping by filtering each tick's recommendation through a sliding window of
// recent recommendations, independently per scaling direction. Scale down proceeds only to the least
// aggressive reduction recommended within the window, so one low reading never shrinks the fleet by
// itself; scale up keeps the highest recent recommendation alive so a brief spike is not lost between
// ticks.
package stabilize

import (
	"time"

	"github.com/horizonscale/horizon-autoscaler/internal/history"
)

// Result is the stabilized recommendation for a tick.
type Result struct {
	// Replicas is the effective recommendation after the window filter
	Replicas int32
	// Stabilized is true when a recent recommendation overrode this tick's target
	Stabilized bool
}

// Apply records this tick's behavior-limited target into the history, prunes entries outside the larger
// window, and returns the effective recommendation for the tick. A no-op target is recorded too, so it
// participates in future window calculations.
func Apply(h *history.History, currentReplicas int32, limitedTarget int32, upWindow time.Duration, downWindow time.Duration, now time.Time) Result {
	h.RecordRecommendation(limitedTarget, now)
	span := upWindow
	if downWindow > span {
		span = downWindow
	}
	h.PruneRecommendations(now, span)

	if limitedTarget > currentReplicas {
		recommendation := highestWithin(h, limitedTarget, now.Add(-upWindow))
		return Result{
			Replicas:   recommendation,
			Stabilized: recommendation != limitedTarget,
		}
	}

	if limitedTarget < currentReplicas {
		recommendation := highestWithin(h, limitedTarget, now.Add(-downWindow))
		// A recent recommendation at or above the current count means no scale down happens at all
		if recommendation > currentReplicas {
			recommendation = currentReplicas
		}
		return Result{
			Replicas:   recommendation,
			Stabilized: recommendation != limitedTarget,
		}
	}

	return Result{Replicas: limitedTarget}
}

func highestWithin(h *history.History, floor int32, cutoff time.Time) int32 {
	recommendation := floor
	for _, rec := range h.Recommendations {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		if rec.Replicas > recommendation {
			recommendation = rec.Replicas
		}
	}
	return recommendation
}

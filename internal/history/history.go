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

// Package history holds the only mutable state the reconcile loop owns across ticks: the recent
// recommendations used by stabilization windows and the recent scale events used by behavior policy rate
// limits. One History exists per scale target, it is created empty on the first reconcile and restarting
// with an empty history only weakens stabilization, it never breaks a reconcile.
package history

import (
	"time"
)

// Recommendation is a replica recommendation made at a point in time, before stabilization.
type Recommendation struct {
	Replicas  int32     `json:"replicas"`
	Timestamp time.Time `json:"timestamp"`
}

// ScaleEvent records the magnitude of an applied replica change at a point in time. The change is stored
// as a non-negative magnitude; direction is implied by which event list holds it.
type ScaleEvent struct {
	ReplicaChange int32     `json:"replicaChange"`
	Timestamp     time.Time `json:"timestamp"`
}

// History is the per-target reconcile state. It must only be accessed by one reconcile at a time.
type History struct {
	Recommendations []Recommendation `json:"recommendations"`
	UpEvents        []ScaleEvent     `json:"upEvents"`
	DownEvents      []ScaleEvent     `json:"downEvents"`
}

// RecordRecommendation stores a recommendation. A recommendation carrying the same timestamp as an
// existing entry replaces it, so repeating a reconcile for the same tick does not double-count.
func (h *History) RecordRecommendation(replicas int32, now time.Time) {
	for i, recommendation := range h.Recommendations {
		if recommendation.Timestamp.Equal(now) {
			h.Recommendations[i].Replicas = replicas
			return
		}
	}
	h.Recommendations = append(h.Recommendations, Recommendation{
		Replicas:  replicas,
		Timestamp: now,
	})
}

// PruneRecommendations drops recommendations older than the span provided, bounding memory to the larger
// of the two stabilization windows.
func (h *History) PruneRecommendations(now time.Time, span time.Duration) {
	cutoff := now.Add(-span)
	// Loop backwards so entries can be removed without breaking iteration
	for i := len(h.Recommendations) - 1; i >= 0; i-- {
		if h.Recommendations[i].Timestamp.Before(cutoff) {
			h.Recommendations = append(h.Recommendations[:i], h.Recommendations[i+1:]...)
		}
	}
}

// RecordScale stores an applied replica change in the event list for its direction. Equal replica counts
// record nothing.
func (h *History) RecordScale(prevReplicas int32, newReplicas int32, now time.Time) {
	if newReplicas > prevReplicas {
		h.UpEvents = append(h.UpEvents, ScaleEvent{
			ReplicaChange: newReplicas - prevReplicas,
			Timestamp:     now,
		})
		return
	}
	if newReplicas < prevReplicas {
		h.DownEvents = append(h.DownEvents, ScaleEvent{
			ReplicaChange: prevReplicas - newReplicas,
			Timestamp:     now,
		})
	}
}

// PruneEvents drops scale events older than each direction's longest policy period.
func (h *History) PruneEvents(now time.Time, upSpan time.Duration, downSpan time.Duration) {
	h.UpEvents = pruneEvents(h.UpEvents, now.Add(-upSpan))
	h.DownEvents = pruneEvents(h.DownEvents, now.Add(-downSpan))
}

func pruneEvents(events []ScaleEvent, cutoff time.Time) []ScaleEvent {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Timestamp.Before(cutoff) {
			events = append(events[:i], events[i+1:]...)
		}
	}
	return events
}

// ChangeWithin sums the replica change magnitudes of the events inside the period ending now.
func ChangeWithin(events []ScaleEvent, periodSeconds int32, now time.Time) int32 {
	cutoff := now.Add(-time.Second * time.Duration(periodSeconds))
	var change int32
	for _, event := range events {
		if event.Timestamp.After(cutoff) {
			change += event.ReplicaChange
		}
	}
	return change
}

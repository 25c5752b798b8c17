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

package reconcile

import (
	"sync"
	"time"

	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
)

// Reconciler runs the decision algorithm against per-target state.
type Reconciler interface {
	Reconcile(in Input) (*evaluate.Decision, error)
	DryRun(in Input) (*evaluate.Decision, error)
	RecordScale(target string, prevReplicas int32, newReplicas int32, now time.Time)
	History(target string) history.History
	Forget(target string)
}

// Engine owns the history of every target it reconciles and serializes reconciles per target; ticks for
// the same target never interleave, while different targets may reconcile concurrently.
type Engine struct {
	mu      sync.Mutex
	targets map[string]*targetState
}

type targetState struct {
	mu      sync.Mutex
	history *history.History
}

// NewEngine creates an Engine with no target state; histories are created on first reconcile.
func NewEngine() *Engine {
	return &Engine{
		targets: map[string]*targetState{},
	}
}

func (e *Engine) state(target string) *targetState {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.targets[target]
	if !ok {
		state = &targetState{history: &history.History{}}
		e.targets[target] = state
	}
	return state
}

// Reconcile evaluates one tick for the target, recording this tick's recommendation into the target's
// history.
func (e *Engine) Reconcile(in Input) (*evaluate.Decision, error) {
	state := e.state(in.Target)
	state.mu.Lock()
	defer state.mu.Unlock()
	return Evaluate(in, state.history)
}

// DryRun evaluates one tick for the target against a copy of its history, leaving the real history
// untouched so a dry run never influences later decisions.
func (e *Engine) DryRun(in Input) (*evaluate.Decision, error) {
	state := e.state(in.Target)
	state.mu.Lock()
	defer state.mu.Unlock()
	scratch := copyHistory(state.history)
	return Evaluate(in, scratch)
}

// RecordScale stores an applied replica change for the target, feeding the behavior policy period
// bounds on later ticks.
func (e *Engine) RecordScale(target string, prevReplicas int32, newReplicas int32, now time.Time) {
	state := e.state(target)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.history.RecordScale(prevReplicas, newReplicas, now)
}

// History returns a copy of the target's history for observability.
func (e *Engine) History(target string) history.History {
	state := e.state(target)
	state.mu.Lock()
	defer state.mu.Unlock()
	return *copyHistory(state.history)
}

// Forget drops all state for a target, used when the target is deleted.
func (e *Engine) Forget(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.targets, target)
}

func copyHistory(h *history.History) *history.History {
	copied := &history.History{
		Recommendations: make([]history.Recommendation, len(h.Recommendations)),
		UpEvents:        make([]history.ScaleEvent, len(h.UpEvents)),
		DownEvents:      make([]history.ScaleEvent, len(h.DownEvents)),
	}
	copy(copied.Recommendations, h.Recommendations)
	copy(copied.UpEvents, h.UpEvents)
	copy(copied.DownEvents, h.DownEvents)
	return copied
}

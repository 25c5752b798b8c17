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

package fake

import (
	"time"

	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
)

// Reconciler (fake) provides a way to insert functionality into a reconcile.Reconciler
type Reconciler struct {
	ReconcileReactor   func(in reconcile.Input) (*evaluate.Decision, error)
	DryRunReactor      func(in reconcile.Input) (*evaluate.Decision, error)
	RecordScaleReactor func(target string, prevReplicas int32, newReplicas int32, now time.Time)
	HistoryReactor     func(target string) history.History
	ForgetReactor      func(target string)
}

// Reconcile calls the fake Reconciler function
func (f *Reconciler) Reconcile(in reconcile.Input) (*evaluate.Decision, error) {
	return f.ReconcileReactor(in)
}

// DryRun calls the fake Reconciler function
func (f *Reconciler) DryRun(in reconcile.Input) (*evaluate.Decision, error) {
	return f.DryRunReactor(in)
}

// RecordScale calls the fake Reconciler function
func (f *Reconciler) RecordScale(target string, prevReplicas int32, newReplicas int32, now time.Time) {
	f.RecordScaleReactor(target, prevReplicas, newReplicas, now)
}

// History calls the fake Reconciler function
func (f *Reconciler) History(target string) history.History {
	return f.HistoryReactor(target)
}

// Forget calls the fake Reconciler function
func (f *Reconciler) Forget(target string) {
	f.ForgetReactor(target)
}

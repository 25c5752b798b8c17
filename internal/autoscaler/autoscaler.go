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

// Package autoscaler drives one reconcile for the managed target - reading the scale subresource,
// gathering metric snapshots, running the decision algorithm against the target's history and applying the
// resulting decision through the scale API.
package autoscaler

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/measure"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
	"github.com/horizonscale/horizon-autoscaler/internal/scaling"
	"github.com/horizonscale/horizon-autoscaler/internal/snapshotget"
	"github.com/horizonscale/horizon-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// Scaler handles one reconcile of the managed target; triggering snapshot gathering and feeding the
// reconciler the snapshots, before taking the decision and using it to interact with Kubernetes to scale
// up/down
type Scaler struct {
	Scaler     scaling.Scaler
	Config     *config.Config
	Gatherer   snapshotget.Gatherer
	Reconciler reconcile.Reconciler
}

// Scale runs a full reconcile: it reads the scale subresource, gathers snapshots, decides and applies the
// decision. The decision is returned even on a degraded tick where every metric was unavailable, alongside
// the error reporting the degradation. When the target no longer exists its history is dropped and the
// tick aborts.
func (s *Scaler) Scale(runType string) (*evaluate.Decision, error) {
	started := time.Now()
	target := s.Config.TargetKey()

	scaleResource, in, err := s.prepare()
	if err != nil {
		if errors.Is(err, scaling.ErrTargetNotFound) {
			glog.V(0).Infof("Scale target %s not found, dropping its state", target)
			s.Reconciler.Forget(target)
		}
		measure.ReconcileCount.WithLabelValues(s.Config.Namespace, s.Config.ScaleTargetRef.Name, measure.OutcomeError).Inc()
		return nil, err
	}

	glog.V(2).Infoln("Attempting to reconcile gathered snapshots")
	decision, err := s.Reconciler.Reconcile(in)
	if err != nil {
		// Every metric was unavailable; the decision holds the current count and nothing is applied
		measure.ReconcileCount.WithLabelValues(s.Config.Namespace, s.Config.ScaleTargetRef.Name, measure.OutcomeNoValidMetrics).Inc()
		measure.ObserveDecision(s.Config.Namespace, s.Config.ScaleTargetRef.Name, decision)
		return decision, err
	}
	glog.V(2).Infof("Decision made: %+v", decision)

	glog.V(2).Infoln("Attempting to scale target based on decision")
	_, err = s.Scaler.Scale(scale.Info{
		Decision:       *decision,
		ScaleTargetRef: s.Config.ScaleTargetRef,
		Namespace:      s.Config.Namespace,
		MinReplicas:    s.Config.MinReplicas,
		MaxReplicas:    s.Config.MaxReplicas,
		RunType:        runType,
	}, scaleResource)
	if err != nil {
		measure.ReconcileCount.WithLabelValues(s.Config.Namespace, s.Config.ScaleTargetRef.Name, measure.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to scale target: %w", err)
	}

	// Scale events only count once the change has actually been applied
	if decision.ScaleChangeRequired() {
		s.Reconciler.RecordScale(target, decision.CurrentReplicas, decision.DesiredReplicas, in.Now)
	}

	measure.ReconcileCount.WithLabelValues(s.Config.Namespace, s.Config.ScaleTargetRef.Name, measure.OutcomeSuccess).Inc()
	measure.ObserveDecision(s.Config.Namespace, s.Config.ScaleTargetRef.Name, decision)
	measure.ReconcileDuration.WithLabelValues(s.Config.Namespace, s.Config.ScaleTargetRef.Name).Observe(time.Since(started).Seconds())
	glog.V(2).Infoln("Reconcile completed successfully")
	return decision, nil
}

// DryRun runs the decision algorithm against a copy of the target's history without applying the result;
// nothing is scaled and the real history is left untouched.
func (s *Scaler) DryRun() (*evaluate.Decision, error) {
	_, in, err := s.prepare()
	if err != nil {
		return nil, err
	}
	return s.Reconciler.DryRun(in)
}

func (s *Scaler) prepare() (*autoscalingv1.Scale, reconcile.Input, error) {
	glog.V(2).Infoln("Attempting to get scale subresource")
	scaleResource, err := s.Scaler.GetScaleSubResource(s.Config.ScaleTargetRef.APIVersion, s.Config.ScaleTargetRef.Kind,
		s.Config.Namespace, s.Config.ScaleTargetRef.Name)
	if err != nil {
		return nil, reconcile.Input{}, fmt.Errorf("failed to get scale subresource: %w", err)
	}
	glog.V(2).Infof("Scale subresource retrieved: %+v", scaleResource)

	podSelector, err := labels.Parse(scaleResource.Status.Selector)
	if err != nil {
		return nil, reconcile.Input{}, fmt.Errorf("failed to parse pod selector of scale subresource: %w", err)
	}

	glog.V(2).Infoln("Attempting to gather metric snapshots")
	snapshots := s.Gatherer.GetSnapshots(s.Config.Metrics, s.Config.Namespace, podSelector)
	glog.V(2).Infof("Gathered %d snapshot(s) for %d metric(s)", len(snapshots), len(s.Config.Metrics))

	return scaleResource, reconcile.Input{
		Target:          s.Config.TargetKey(),
		CurrentReplicas: scaleResource.Spec.Replicas,
		Snapshots:       snapshots,
		MinReplicas:     s.Config.MinReplicas,
		MaxReplicas:     s.Config.MaxReplicas,
		Behavior:        s.Config.Behavior,
		Tolerance:       s.Config.Tolerance,
		Now:             time.Now().UTC(),
	}, nil
}

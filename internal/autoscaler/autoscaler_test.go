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

package autoscaler_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/autoscaler"
	"github.com/horizonscale/horizon-autoscaler/internal/fake"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
	"github.com/horizonscale/horizon-autoscaler/internal/scaling"
	"github.com/horizonscale/horizon-autoscaler/metric"
	"github.com/horizonscale/horizon-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	"k8s.io/apimachinery/pkg/labels"
)

func testConfig() *config.Config {
	return &config.Config{
		Namespace: "test",
		ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
			Name:       "app",
		},
		Metrics: []metric.Spec{
			{
				Type: metric.ExternalSourceType,
				External: &metric.ExternalSource{
					Metric: "queue_length",
					Target: metric.Target{
						Type:  metric.ValueTargetType,
						Value: 1000,
					},
				},
			},
		},
		MinReplicas: 1,
		MaxReplicas: 10,
		Tolerance:   0.1,
	}
}

func emptyGatherer() *fake.Gatherer {
	return &fake.Gatherer{
		GetSnapshotsReactor: func(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot {
			return nil
		},
	}
}

func scaleSubResource(replicas int32) *autoscalingv1.Scale {
	return &autoscalingv1.Scale{
		Spec: autoscalingv1.ScaleSpec{
			Replicas: replicas,
		},
		Status: autoscalingv1.ScaleStatus{
			Replicas: replicas,
			Selector: "app=test",
		},
	}
}

func TestScaler_Scale_FailToGetScaleSubResource(t *testing.T) {
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return nil, errors.New("connection refused")
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ForgetReactor: func(target string) {
				t.Error("state should not be dropped for a transient failure")
			},
		},
	}

	result, err := scaler.Scale(config.ScalerRunType)
	if err == nil || err.Error() != "failed to get scale subresource: connection refused" {
		t.Errorf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected no decision, got %+v", result)
	}
}

func TestScaler_Scale_TargetNotFoundDropsState(t *testing.T) {
	forgotten := ""
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return nil, scaling.ErrTargetNotFound
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ForgetReactor: func(target string) {
				forgotten = target
			},
		},
	}

	_, err := scaler.Scale(config.ScalerRunType)
	if !errors.Is(err, scaling.ErrTargetNotFound) {
		t.Errorf("expected error to wrap scaling.ErrTargetNotFound, got %v", err)
	}
	if forgotten != "test/apps/v1/Deployment/app" {
		t.Errorf("expected state dropped for test/apps/v1/Deployment/app, got %q", forgotten)
	}
}

func TestScaler_Scale_DegradedTickAppliesNothing(t *testing.T) {
	hold := &evaluate.Decision{
		DesiredReplicas: 3,
		CurrentReplicas: 3,
		ClampedAtBound:  evaluate.NoBound,
		Reason:          evaluate.ReasonNoValidMetrics,
	}
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				t.Error("a degraded decision should never be applied")
				return nil, nil
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ReconcileReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return hold, evaluate.ErrNoValidMetrics
			},
		},
	}

	result, err := scaler.Scale(config.ScalerRunType)
	if !errors.Is(err, evaluate.ErrNoValidMetrics) {
		t.Errorf("expected evaluate.ErrNoValidMetrics, got %v", err)
	}
	if !cmp.Equal(hold, result) {
		t.Errorf("decision mismatch (-want +got):\n%s", cmp.Diff(hold, result))
	}
}

func TestScaler_Scale_FailToApplyDecision(t *testing.T) {
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				return nil, errors.New("fail to update resource")
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ReconcileReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return &evaluate.Decision{
					DesiredReplicas: 5,
					CurrentReplicas: 3,
				}, nil
			},
			RecordScaleReactor: func(target string, prevReplicas int32, newReplicas int32, now time.Time) {
				t.Error("a failed scale should not be recorded as a scale event")
			},
		},
	}

	result, err := scaler.Scale(config.ScalerRunType)
	if err == nil || err.Error() != "failed to scale target: fail to update resource" {
		t.Errorf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected no decision, got %+v", result)
	}
}

func TestScaler_Scale_SuccessRecordsScaleEvent(t *testing.T) {
	decision := &evaluate.Decision{
		DesiredReplicas: 5,
		CurrentReplicas: 3,
		Reason:          evaluate.ReasonDesiredWithinRange,
	}
	recordedPrev := int32(-1)
	recordedNew := int32(-1)
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				return &info.Decision, nil
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ReconcileReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return decision, nil
			},
			RecordScaleReactor: func(target string, prevReplicas int32, newReplicas int32, now time.Time) {
				recordedPrev = prevReplicas
				recordedNew = newReplicas
			},
		},
	}

	result, err := scaler.Scale(config.ScalerRunType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(decision, result) {
		t.Errorf("decision mismatch (-want +got):\n%s", cmp.Diff(decision, result))
	}
	if recordedPrev != 3 || recordedNew != 5 {
		t.Errorf("expected scale event from 3 to 5 recorded, got %d to %d", recordedPrev, recordedNew)
	}
}

func TestScaler_Scale_NoChangeRecordsNoScaleEvent(t *testing.T) {
	decision := &evaluate.Decision{
		DesiredReplicas: 3,
		CurrentReplicas: 3,
		Reason:          evaluate.ReasonDesiredWithinRange,
	}
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				return &info.Decision, nil
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			ReconcileReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return decision, nil
			},
			RecordScaleReactor: func(target string, prevReplicas int32, newReplicas int32, now time.Time) {
				t.Error("an unchanged replica count should not be recorded as a scale event")
			},
		},
	}

	if _, err := scaler.Scale(config.ScalerRunType); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScaler_DryRun(t *testing.T) {
	decision := &evaluate.Decision{
		DesiredReplicas: 7,
		CurrentReplicas: 3,
		Reason:          evaluate.ReasonDesiredWithinRange,
	}
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				t.Error("a dry run should never apply a decision")
				return nil, nil
			},
		},
		Config:   testConfig(),
		Gatherer: emptyGatherer(),
		Reconciler: &fake.Reconciler{
			DryRunReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return decision, nil
			},
		},
	}

	result, err := scaler.DryRun()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(decision, result) {
		t.Errorf("decision mismatch (-want +got):\n%s", cmp.Diff(decision, result))
	}
}

func TestScaler_Scale_GathererReceivesParsedSelector(t *testing.T) {
	var gatheredSelector labels.Selector
	scaler := &autoscaler.Scaler{
		Scaler: &fake.Scaling{
			GetScaleSubResourceReactor: func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
				return scaleSubResource(3), nil
			},
			ScaleReactor: func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
				return &info.Decision, nil
			},
		},
		Config: testConfig(),
		Gatherer: &fake.Gatherer{
			GetSnapshotsReactor: func(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot {
				gatheredSelector = podSelector
				return nil
			},
		},
		Reconciler: &fake.Reconciler{
			ReconcileReactor: func(in reconcile.Input) (*evaluate.Decision, error) {
				return &evaluate.Decision{
					DesiredReplicas: 3,
					CurrentReplicas: 3,
				}, nil
			},
		},
	}

	if _, err := scaler.Scale(config.ScalerRunType); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gatheredSelector == nil || gatheredSelector.String() != "app=test" {
		t.Errorf("expected gatherer called with selector app=test, got %v", gatheredSelector)
	}
}

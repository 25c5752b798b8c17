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

package v1_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/go-cmp/cmp"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	apiv1 "github.com/horizonscale/horizon-autoscaler/internal/api/v1"
	"github.com/horizonscale/horizon-autoscaler/internal/fake"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		Namespace: "test",
		ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
			Name:       "app",
		},
	}
}

func testDecision() *evaluate.Decision {
	return &evaluate.Decision{
		DesiredReplicas: 5,
		CurrentReplicas: 3,
		AppliedMetric:   "external metric queue_length",
		ClampedAtBound:  evaluate.NoBound,
		Reason:          evaluate.ReasonDesiredWithinRange,
	}
}

const testDecisionJSON = `{"desiredReplicas":5,"currentReplicas":3,"appliedMetric":"external metric queue_length",` +
	`"limitedByPolicy":false,"limitedByStabilization":false,"clampedAtBound":"none",` +
	`"reason":"DesiredWithinAcceptableRange","timestamp":"0001-01-01T00:00:00Z"}`

func TestAPI(t *testing.T) {
	var tests = []struct {
		description      string
		expectedResponse string
		expectedCode     int
		method           string
		endpoint         string
		runner           apiv1.Runner
		reconciler       reconcile.Reconciler
	}{
		{
			"Get decision fails",
			`{"message":"failed to get scale subresource: connection refused","code":500}`,
			http.StatusInternalServerError,
			"GET",
			"/api/v1/decision",
			&fake.Runner{
				DryRunReactor: func() (*evaluate.Decision, error) {
					return nil, errors.New("failed to get scale subresource: connection refused")
				},
			},
			&fake.Reconciler{},
		},
		{
			"Get decision success, nothing applied",
			testDecisionJSON,
			http.StatusOK,
			"GET",
			"/api/v1/decision",
			&fake.Runner{
				ScaleReactor: func(runType string) (*evaluate.Decision, error) {
					return nil, errors.New("viewing a decision must never apply it")
				},
				DryRunReactor: func() (*evaluate.Decision, error) {
					return testDecision(), nil
				},
			},
			&fake.Reconciler{},
		},
		{
			"Reconcile with invalid dry_run parameter",
			`{"message":"Invalid format for 'dry_run' query parameter; 'maybe' is not a valid boolean value","code":400}`,
			http.StatusBadRequest,
			"POST",
			"/api/v1/reconcile?dry_run=maybe",
			&fake.Runner{},
			&fake.Reconciler{},
		},
		{
			"Reconcile dry run",
			testDecisionJSON,
			http.StatusOK,
			"POST",
			"/api/v1/reconcile?dry_run=true",
			&fake.Runner{
				ScaleReactor: func(runType string) (*evaluate.Decision, error) {
					return nil, errors.New("a dry run must never apply a decision")
				},
				DryRunReactor: func() (*evaluate.Decision, error) {
					return testDecision(), nil
				},
			},
			&fake.Reconciler{},
		},
		{
			"Reconcile fails",
			`{"message":"failed to scale target: fail to update resource","code":500}`,
			http.StatusInternalServerError,
			"POST",
			"/api/v1/reconcile",
			&fake.Runner{
				ScaleReactor: func(runType string) (*evaluate.Decision, error) {
					return nil, errors.New("failed to scale target: fail to update resource")
				},
			},
			&fake.Reconciler{},
		},
		{
			"Reconcile success, decision applied",
			testDecisionJSON,
			http.StatusOK,
			"POST",
			"/api/v1/reconcile",
			&fake.Runner{
				ScaleReactor: func(runType string) (*evaluate.Decision, error) {
					if runType != config.APIRunType {
						return nil, errors.New("expected api run type")
					}
					return testDecision(), nil
				},
			},
			&fake.Reconciler{},
		},
		{
			"Get history",
			`{"recommendations":[{"replicas":5,"timestamp":"2026-01-01T12:00:00Z"}],"upEvents":null,"downEvents":null}`,
			http.StatusOK,
			"GET",
			"/api/v1/history",
			&fake.Runner{},
			&fake.Reconciler{
				HistoryReactor: func(target string) history.History {
					if target != "test/apps/v1/Deployment/app" {
						return history.History{}
					}
					return history.History{
						Recommendations: []history.Recommendation{
							{
								Replicas:  5,
								Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
							},
						},
					}
				},
			},
		},
		{
			"Unknown endpoint",
			`{"message":"Resource '/api/v1/unknown' not found","code":404}`,
			http.StatusNotFound,
			"GET",
			"/api/v1/unknown",
			&fake.Runner{},
			&fake.Reconciler{},
		},
		{
			"Method not allowed",
			`{"message":"Method 'DELETE' not allowed on resource '/api/v1/decision'","code":405}`,
			http.StatusMethodNotAllowed,
			"DELETE",
			"/api/v1/decision",
			&fake.Runner{},
			&fake.Reconciler{},
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			api := &apiv1.API{
				Router:     chi.NewRouter(),
				Config:     testConfig(),
				Runner:     test.runner,
				Reconciler: test.reconciler,
			}
			api.Routes()

			req, err := http.NewRequest(test.method, test.endpoint, nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}
			recorder := httptest.NewRecorder()
			api.Router.ServeHTTP(recorder, req)

			if !cmp.Equal(test.expectedCode, recorder.Code) {
				t.Errorf("status code mismatch (-want +got):\n%s", cmp.Diff(test.expectedCode, recorder.Code))
			}
			if !cmp.Equal(test.expectedResponse, recorder.Body.String()) {
				t.Errorf("response mismatch (-want +got):\n%s", cmp.Diff(test.expectedResponse, recorder.Body.String()))
			}
		})
	}
}

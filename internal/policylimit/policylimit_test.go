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

package policylimit_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/horizonscale/horizon-autoscaler/behavior"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
	"github.com/horizonscale/horizon-autoscaler/internal/policylimit"
)

func selectPolicy(p behavior.SelectPolicy) *behavior.SelectPolicy {
	return &p
}

func rules(selected behavior.SelectPolicy, policies ...behavior.Policy) behavior.Rules {
	window := int32(0)
	return behavior.Rules{
		StabilizationWindowSeconds: &window,
		SelectPolicy:               selectPolicy(selected),
		Policies:                   policies,
	}
}

func TestUp(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var tests = []struct {
		description     string
		expected        policylimit.Result
		currentReplicas int32
		desiredReplicas int32
		rules           behavior.Rules
		upEvents        []history.ScaleEvent
	}{
		{
			"Disabled select policy holds current",
			policylimit.Result{Replicas: 5, Limited: true, Disabled: true},
			5,
			10,
			rules(behavior.DisabledSelectPolicy),
			nil,
		},
		{
			"No policies leaves direction unrestricted",
			policylimit.Result{Replicas: 100},
			5,
			100,
			rules(behavior.MaxSelectPolicy),
			nil,
		},
		{
			"Pods policy bounds the step",
			policylimit.Result{Replicas: 9, Limited: true},
			5,
			20,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 4, PeriodSeconds: 60}),
			nil,
		},
		{
			"Pods policy accounts for change already made this period",
			policylimit.Result{Replicas: 7, Limited: true},
			5,
			20,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 4, PeriodSeconds: 60}),
			[]history.ScaleEvent{
				{ReplicaChange: 2, Timestamp: now.Add(-30 * time.Second)},
			},
		},
		{
			"Percent policy rounds the bound up",
			policylimit.Result{Replicas: 8, Limited: true},
			5,
			20,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PercentPolicyType, Value: 50, PeriodSeconds: 60}),
			nil,
		},
		{
			"Max select policy picks the largest bound",
			policylimit.Result{Replicas: 10, Limited: true},
			5,
			20,
			rules(behavior.MaxSelectPolicy,
				behavior.Policy{Type: behavior.PodsPolicyType, Value: 2, PeriodSeconds: 60},
				behavior.Policy{Type: behavior.PercentPolicyType, Value: 100, PeriodSeconds: 60}),
			nil,
		},
		{
			"Min select policy picks the smallest bound",
			policylimit.Result{Replicas: 7, Limited: true},
			5,
			20,
			rules(behavior.MinSelectPolicy,
				behavior.Policy{Type: behavior.PodsPolicyType, Value: 2, PeriodSeconds: 60},
				behavior.Policy{Type: behavior.PercentPolicyType, Value: 100, PeriodSeconds: 60}),
			nil,
		},
		{
			"Budget already spent floors limit at current",
			policylimit.Result{Replicas: 5, Limited: true},
			5,
			20,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 4, PeriodSeconds: 60}),
			[]history.ScaleEvent{
				{ReplicaChange: 4, Timestamp: now.Add(-10 * time.Second)},
				{ReplicaChange: 3, Timestamp: now.Add(-20 * time.Second)},
			},
		},
		{
			"Desired already within bound passes through",
			policylimit.Result{Replicas: 7},
			5,
			7,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 4, PeriodSeconds: 60}),
			nil,
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			result := policylimit.Up(test.currentReplicas, test.desiredReplicas, test.rules, test.upEvents, now)
			if !cmp.Equal(test.expected, result) {
				t.Errorf("result mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}

func TestDown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var tests = []struct {
		description     string
		expected        policylimit.Result
		currentReplicas int32
		desiredReplicas int32
		rules           behavior.Rules
		downEvents      []history.ScaleEvent
	}{
		{
			"Disabled select policy holds current",
			policylimit.Result{Replicas: 10, Limited: true, Disabled: true},
			10,
			2,
			rules(behavior.DisabledSelectPolicy),
			nil,
		},
		{
			"No policies leaves direction unrestricted",
			policylimit.Result{Replicas: 1},
			10,
			1,
			rules(behavior.MaxSelectPolicy),
			nil,
		},
		{
			"Pods policy bounds the step",
			policylimit.Result{Replicas: 7, Limited: true},
			10,
			1,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 3, PeriodSeconds: 60}),
			nil,
		},
		{
			"Pods policy accounts for change already made this period",
			policylimit.Result{Replicas: 9, Limited: true},
			10,
			1,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 3, PeriodSeconds: 60}),
			[]history.ScaleEvent{
				{ReplicaChange: 2, Timestamp: now.Add(-30 * time.Second)},
			},
		},
		{
			"Percent policy rounds the bound down",
			policylimit.Result{Replicas: 4, Limited: true},
			9,
			1,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PercentPolicyType, Value: 50, PeriodSeconds: 60}),
			nil,
		},
		{
			"Max select policy picks the bound removing the most pods",
			policylimit.Result{Replicas: 5, Limited: true},
			10,
			1,
			rules(behavior.MaxSelectPolicy,
				behavior.Policy{Type: behavior.PodsPolicyType, Value: 5, PeriodSeconds: 60},
				behavior.Policy{Type: behavior.PercentPolicyType, Value: 30, PeriodSeconds: 60}),
			nil,
		},
		{
			"Min select policy picks the bound removing the fewest pods",
			policylimit.Result{Replicas: 7, Limited: true},
			10,
			1,
			rules(behavior.MinSelectPolicy,
				behavior.Policy{Type: behavior.PodsPolicyType, Value: 5, PeriodSeconds: 60},
				behavior.Policy{Type: behavior.PercentPolicyType, Value: 30, PeriodSeconds: 60}),
			nil,
		},
		{
			"Bound floored at zero never forces negative replicas",
			policylimit.Result{Replicas: 1},
			2,
			1,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 10, PeriodSeconds: 60}),
			nil,
		},
		{
			"Desired already within bound passes through",
			policylimit.Result{Replicas: 8},
			10,
			8,
			rules(behavior.MaxSelectPolicy, behavior.Policy{Type: behavior.PodsPolicyType, Value: 3, PeriodSeconds: 60}),
			nil,
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			result := policylimit.Down(test.currentReplicas, test.desiredReplicas, test.rules, test.downEvents, now)
			if !cmp.Equal(test.expected, result) {
				t.Errorf("result mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}

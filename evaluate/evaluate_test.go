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

package evaluate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
)

func TestDecision_ScaleChangeRequired(t *testing.T) {
	var tests = []struct {
		description string
		expected    bool
		decision    evaluate.Decision
	}{
		{
			"Scale up required",
			true,
			evaluate.Decision{
				DesiredReplicas: 5,
				CurrentReplicas: 3,
			},
		},
		{
			"Scale down required",
			true,
			evaluate.Decision{
				DesiredReplicas: 2,
				CurrentReplicas: 3,
			},
		},
		{
			"No change required",
			false,
			evaluate.Decision{
				DesiredReplicas: 3,
				CurrentReplicas: 3,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			result := test.decision.ScaleChangeRequired()
			if !cmp.Equal(test.expected, result) {
				t.Errorf("result mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}

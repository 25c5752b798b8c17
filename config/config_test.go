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

package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/horizonscale/horizon-autoscaler/config"
	autoscaling "k8s.io/api/autoscaling/v2"
)

func TestConfig_TargetKey(t *testing.T) {
	var tests = []struct {
		description string
		expected    string
		config      *config.Config
	}{
		{
			"Deployment target",
			"default/apps/v1/Deployment/app",
			&config.Config{
				Namespace: "default",
				ScaleTargetRef: &autoscaling.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "Deployment",
					Name:       "app",
				},
			},
		},
		{
			"StatefulSet target in a custom namespace",
			"production/apps/v1/StatefulSet/database",
			&config.Config{
				Namespace: "production",
				ScaleTargetRef: &autoscaling.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "StatefulSet",
					Name:       "database",
				},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			result := test.config.TargetKey()
			if !cmp.Equal(test.expected, result) {
				t.Errorf("key mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}

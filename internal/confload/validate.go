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

package confload

import (
	"fmt"

	"github.com/horizonscale/horizon-autoscaler/behavior"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/metric"
)

// Validate rejects configurations the reconcile loop must never see. Every failure wraps
// config.ErrInvalidSpec so callers can distinguish configuration errors from runtime ones.
func Validate(loaded *config.Config) error {
	if loaded.ScaleTargetRef == nil {
		return fmt.Errorf("%w: no scaleTargetRef provided", config.ErrInvalidSpec)
	}
	if loaded.ScaleTargetRef.Kind == "" || loaded.ScaleTargetRef.Name == "" {
		return fmt.Errorf("%w: scaleTargetRef requires both kind and name", config.ErrInvalidSpec)
	}
	if loaded.MinReplicas < 1 {
		return fmt.Errorf("%w: minReplicas must be at least 1, scale to zero is not supported", config.ErrInvalidSpec)
	}
	if loaded.MaxReplicas < loaded.MinReplicas {
		return fmt.Errorf("%w: maxReplicas (%d) must not be below minReplicas (%d)",
			config.ErrInvalidSpec, loaded.MaxReplicas, loaded.MinReplicas)
	}
	if loaded.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative", config.ErrInvalidSpec)
	}
	if loaded.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", config.ErrInvalidSpec)
	}
	// The start time aligns the first tick with a modulo; zero would divide by zero at startup
	if loaded.StartTime < 1 {
		return fmt.Errorf("%w: startTime must be at least 1", config.ErrInvalidSpec)
	}
	if len(loaded.Metrics) == 0 {
		return fmt.Errorf("%w: at least one metric must be configured", config.ErrInvalidSpec)
	}
	for i, spec := range loaded.Metrics {
		if err := validateMetric(spec); err != nil {
			return fmt.Errorf("%w: metric %d: %v", config.ErrInvalidSpec, i, err)
		}
	}
	if loaded.Behavior != nil {
		if err := validateRules(loaded.Behavior.ScaleUp); err != nil {
			return fmt.Errorf("%w: scaleUp behavior: %v", config.ErrInvalidSpec, err)
		}
		if err := validateRules(loaded.Behavior.ScaleDown); err != nil {
			return fmt.Errorf("%w: scaleDown behavior: %v", config.ErrInvalidSpec, err)
		}
	}
	return nil
}

func validateMetric(spec metric.Spec) error {
	switch spec.Type {
	case metric.ResourceSourceType:
		if spec.Resource == nil {
			return fmt.Errorf("resource source requires the resource field")
		}
		if spec.Resource.Name == "" {
			return fmt.Errorf("resource source requires a resource name")
		}
		switch spec.Resource.Target.Type {
		case metric.UtilizationTargetType:
			if spec.Resource.Target.AverageUtilization <= 0 {
				return fmt.Errorf("utilization target must be positive")
			}
		case metric.AverageValueTargetType:
			if spec.Resource.Target.Value <= 0 {
				return fmt.Errorf("average value target must be positive")
			}
		default:
			return fmt.Errorf("resource source supports Utilization and AverageValue targets, got %q",
				string(spec.Resource.Target.Type))
		}
	case metric.PodsSourceType:
		if spec.Pods == nil {
			return fmt.Errorf("pods source requires the pods field")
		}
		if spec.Pods.Metric == "" {
			return fmt.Errorf("pods source requires a metric name")
		}
		if spec.Pods.Target.Type != metric.AverageValueTargetType {
			return fmt.Errorf("pods source supports AverageValue targets only, got %q",
				string(spec.Pods.Target.Type))
		}
		if spec.Pods.Target.Value <= 0 {
			return fmt.Errorf("average value target must be positive")
		}
	case metric.ExternalSourceType:
		if spec.External == nil {
			return fmt.Errorf("external source requires the external field")
		}
		if spec.External.Metric == "" {
			return fmt.Errorf("external source requires a metric name")
		}
		if spec.External.Target.Type != metric.ValueTargetType &&
			spec.External.Target.Type != metric.AverageValueTargetType {
			return fmt.Errorf("external source supports Value and AverageValue targets, got %q",
				string(spec.External.Target.Type))
		}
		if spec.External.Target.Value <= 0 {
			return fmt.Errorf("target value must be positive")
		}
	default:
		return fmt.Errorf("unknown metric source type %q", string(spec.Type))
	}
	return nil
}

func validateRules(rules *behavior.Rules) error {
	if rules == nil {
		return nil
	}
	if rules.StabilizationWindowSeconds != nil && *rules.StabilizationWindowSeconds < 0 {
		return fmt.Errorf("stabilization window must not be negative")
	}
	if rules.SelectPolicy != nil {
		switch *rules.SelectPolicy {
		case behavior.MinSelectPolicy, behavior.MaxSelectPolicy, behavior.DisabledSelectPolicy:
		default:
			return fmt.Errorf("unknown select policy %q", string(*rules.SelectPolicy))
		}
	}
	for i, policy := range rules.Policies {
		if policy.Type != behavior.PodsPolicyType && policy.Type != behavior.PercentPolicyType {
			return fmt.Errorf("policy %d: unknown policy type %q", i, string(policy.Type))
		}
		if policy.Value < 0 {
			return fmt.Errorf("policy %d: value must not be negative", i)
		}
		if policy.PeriodSeconds <= 0 {
			return fmt.Errorf("policy %d: period must be positive", i)
		}
	}
	return nil
}

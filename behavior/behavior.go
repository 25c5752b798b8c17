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

// Package behavior defines the configuration bounding how fast the autoscaler may change the replica
// count, independently for the scale up and scale down directions. With no behavior configured the
// autoscaler reacts immediately on scale up and stabilizes scale down over a 300 second window, with no
// rate limit on either direction.
package behavior

// PolicyType is the type of a scaling policy, determining how its value bounds replica change.
type PolicyType string

const (
	// PodsPolicyType bounds the absolute number of pods changed within the policy period
	PodsPolicyType PolicyType = "Pods"
	// PercentPolicyType bounds the change within the policy period to a percentage of the replica count
	// at the start of the period
	PercentPolicyType PolicyType = "Percent"
)

// SelectPolicy determines how the bounds computed from multiple policies are combined.
type SelectPolicy string

const (
	// MinSelectPolicy picks the most conservative bound, the smallest allowed change
	MinSelectPolicy SelectPolicy = "Min"
	// MaxSelectPolicy picks the least conservative bound, the largest allowed change
	MaxSelectPolicy SelectPolicy = "Max"
	// DisabledSelectPolicy forbids any change in the direction the rules apply to
	DisabledSelectPolicy SelectPolicy = "Disabled"
)

const (
	// DefaultUpStabilizationSeconds is the scale up stabilization window applied when none is configured,
	// scaling up reacts immediately
	DefaultUpStabilizationSeconds int32 = 0
	// DefaultDownStabilizationSeconds is the scale down stabilization window applied when none is
	// configured
	DefaultDownStabilizationSeconds int32 = 300
)

// Policy is a single rate limiting rule: no more than Value pods (or Value percent of the period start
// replica count) of change within PeriodSeconds.
type Policy struct {
	Type          PolicyType `json:"type"`
	Value         int32      `json:"value"`
	PeriodSeconds int32      `json:"periodSeconds"`
}

// Rules groups the policies for one scaling direction with the direction's stabilization window and the
// select policy combining the policy bounds. An empty policy list leaves the direction unrestricted.
type Rules struct {
	StabilizationWindowSeconds *int32       `json:"stabilizationWindowSeconds,omitempty"`
	SelectPolicy               *SelectPolicy `json:"selectPolicy,omitempty"`
	Policies                   []Policy     `json:"policies,omitempty"`
}

// Behavior holds the scaling rules for both directions. Either direction may be nil, in which case the
// direction uses the defaults.
type Behavior struct {
	ScaleUp   *Rules `json:"scaleUp,omitempty"`
	ScaleDown *Rules `json:"scaleDown,omitempty"`
}

// UpRules returns the scale up rules with defaults filled in; safe to call on a nil behavior.
func (b *Behavior) UpRules() Rules {
	if b == nil {
		return defaultedRules(nil, DefaultUpStabilizationSeconds)
	}
	return defaultedRules(b.ScaleUp, DefaultUpStabilizationSeconds)
}

// DownRules returns the scale down rules with defaults filled in; safe to call on a nil behavior.
func (b *Behavior) DownRules() Rules {
	if b == nil {
		return defaultedRules(nil, DefaultDownStabilizationSeconds)
	}
	return defaultedRules(b.ScaleDown, DefaultDownStabilizationSeconds)
}

func defaultedRules(rules *Rules, defaultStabilization int32) Rules {
	defaulted := Rules{}
	if rules != nil {
		defaulted = *rules
	}
	if defaulted.StabilizationWindowSeconds == nil {
		window := defaultStabilization
		defaulted.StabilizationWindowSeconds = &window
	}
	if defaulted.SelectPolicy == nil {
		selectPolicy := MaxSelectPolicy
		defaulted.SelectPolicy = &selectPolicy
	}
	return defaulted
}

// LongestPeriodSeconds returns the longest policy period in the rules, used to bound how much scale
// event history must be retained.
func (r Rules) LongestPeriodSeconds() int32 {
	var longest int32
	for _, policy := range r.Policies {
		if policy.PeriodSeconds > longest {
			longest = policy.PeriodSeconds
		}
	}
	return longest
}

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

// Package policylimit bounds how far a single reconcile may move the replica count, using the behavior
// policies configured per direction. Each policy computes an allowed bound referenced from the replica
// count at the start of its period, reconstructed from recent scale events; the select policy picks among
// the bounds. A direction with no policies is unrestricted.
package policylimit

import (
	"math"
	"time"

	"github.com/horizonscale/horizon-autoscaler/behavior"
	"github.com/horizonscale/horizon-autoscaler/internal/history"
)

// Result is the outcome of applying a direction's rules to a candidate replica count.
type Result struct {
	// Replicas is the candidate after bounding
	Replicas int32
	// Limited is true when a policy changed the candidate
	Limited bool
	// Disabled is true when the direction is forbidden entirely by its select policy
	Disabled bool
}

// Up bounds a scale up candidate. Percent bounds round with ceil so rounding never stalls a scale up the
// policy would otherwise allow.
func Up(currentReplicas int32, desiredReplicas int32, rules behavior.Rules, upEvents []history.ScaleEvent, now time.Time) Result {
	if *rules.SelectPolicy == behavior.DisabledSelectPolicy {
		return Result{Replicas: currentReplicas, Limited: true, Disabled: true}
	}
	if len(rules.Policies) == 0 {
		return Result{Replicas: desiredReplicas}
	}

	selectMin := *rules.SelectPolicy == behavior.MinSelectPolicy
	limit := int32(math.MinInt32)
	if selectMin {
		limit = int32(math.MaxInt32)
	}
	for _, policy := range rules.Policies {
		changed := history.ChangeWithin(upEvents, policy.PeriodSeconds, now)
		periodStartReplicas := currentReplicas - changed
		var bound int32
		switch policy.Type {
		case behavior.PodsPolicyType:
			bound = periodStartReplicas + policy.Value
		case behavior.PercentPolicyType:
			bound = int32(math.Ceil(float64(periodStartReplicas) * (1 + float64(policy.Value)/100)))
		}
		if selectMin {
			if bound < limit {
				limit = bound
			}
		} else if bound > limit {
			limit = bound
		}
	}

	// The change budget for the period is already spent; no further scale up until events expire
	if limit < currentReplicas {
		limit = currentReplicas
	}
	if desiredReplicas > limit {
		return Result{Replicas: limit, Limited: true}
	}
	return Result{Replicas: desiredReplicas}
}

// Down bounds a scale down candidate. Percent bounds round with floor so a scale down never removes a
// fractional extra pod beyond what the policy permits.
func Down(currentReplicas int32, desiredReplicas int32, rules behavior.Rules, downEvents []history.ScaleEvent, now time.Time) Result {
	if *rules.SelectPolicy == behavior.DisabledSelectPolicy {
		return Result{Replicas: currentReplicas, Limited: true, Disabled: true}
	}
	if len(rules.Policies) == 0 {
		return Result{Replicas: desiredReplicas}
	}

	// For scale down the most conservative bound is the numerically largest, it removes the fewest pods
	selectMin := *rules.SelectPolicy == behavior.MinSelectPolicy
	limit := int32(math.MaxInt32)
	if selectMin {
		limit = int32(math.MinInt32)
	}
	for _, policy := range rules.Policies {
		changed := history.ChangeWithin(downEvents, policy.PeriodSeconds, now)
		periodStartReplicas := currentReplicas + changed
		var bound int32
		switch policy.Type {
		case behavior.PodsPolicyType:
			bound = periodStartReplicas - policy.Value
		case behavior.PercentPolicyType:
			bound = int32(math.Floor(float64(periodStartReplicas) * (1 - float64(policy.Value)/100)))
		}
		if bound < 0 {
			bound = 0
		}
		if selectMin {
			if bound > limit {
				limit = bound
			}
		} else if bound < limit {
			limit = bound
		}
	}

	if limit > currentReplicas {
		limit = currentReplicas
	}
	if desiredReplicas < limit {
		return Result{Replicas: limit, Limited: true}
	}
	return Result{Replicas: desiredReplicas}
}

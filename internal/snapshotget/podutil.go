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

package snapshotget

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// groupPods groups pods into ready, missing and ignored based on the gathered values and resource provided.
// Deleting or failed pods are dropped outright; pending pods and pods still within their CPU initialisation
// or readiness delay windows are ignored; running pods without a reading are missing.
func groupPods(pods []corev1.Pod, values podValues, resource corev1.ResourceName, cpuInitializationPeriod, delayOfInitialReadinessStatus time.Duration) (readyPodCount int, ignoredPods sets.String, missingPods sets.String) {
	missingPods = sets.NewString()
	ignoredPods = sets.NewString()
	for _, pod := range pods {
		if pod.DeletionTimestamp != nil || pod.Status.Phase == corev1.PodFailed {
			continue
		}
		// Pending pods are ignored.
		if pod.Status.Phase == corev1.PodPending {
			ignoredPods.Insert(pod.Name)
			continue
		}
		// Pods missing metrics.
		value, found := values[pod.Name]
		if !found {
			missingPods.Insert(pod.Name)
			continue
		}
		// Unready pods are ignored.
		if resource == corev1.ResourceCPU {
			var ignorePod bool
			condition := getPodReadyCondition(&pod.Status)
			if condition == nil || pod.Status.StartTime == nil {
				ignorePod = true
			} else {
				// Pod still within possible initialisation period.
				if pod.Status.StartTime.Add(cpuInitializationPeriod).After(time.Now()) {
					// Ignore sample if pod is unready or one window of metric wasn't collected since last state transition.
					ignorePod = condition.Status == corev1.ConditionFalse || value.Timestamp.Before(condition.LastTransitionTime.Time.Add(value.Window))
				} else {
					// Ignore metric if pod is unready and it has never been ready.
					ignorePod = condition.Status == corev1.ConditionFalse && pod.Status.StartTime.Add(delayOfInitialReadinessStatus).After(condition.LastTransitionTime.Time)
				}
			}
			if ignorePod {
				ignoredPods.Insert(pod.Name)
				continue
			}
		}
		readyPodCount++
	}
	return
}

func getPodReadyCondition(status *corev1.PodStatus) *corev1.PodCondition {
	for i := range status.Conditions {
		if status.Conditions[i].Type == corev1.PodReady {
			return &status.Conditions[i]
		}
	}
	return nil
}

// calculatePodRequests calculates pod resource requests for a slice of pods
func calculatePodRequests(pods []corev1.Pod, resource corev1.ResourceName) (map[string]int64, error) {
	requests := make(map[string]int64, len(pods))
	for _, pod := range pods {
		podSum := int64(0)
		for _, container := range pod.Spec.Containers {
			containerRequest, ok := container.Resources.Requests[resource]
			if !ok {
				return nil, fmt.Errorf("missing request for %s on pod %s", resource, pod.Name)
			}
			podSum += containerRequest.MilliValue()
		}
		requests[pod.Name] = podSum
	}
	return requests, nil
}

// removeValuesForPods removes the pods provided from the gathered values provided
func removeValuesForPods(values podValues, pods sets.String) {
	for _, pod := range pods.UnsortedList() {
		delete(values, pod)
	}
}

func rawValues(values podValues) map[string]int64 {
	raw := make(map[string]int64, len(values))
	for name, value := range values {
		raw[name] = value.Value
	}
	return raw
}

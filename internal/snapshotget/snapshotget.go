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

// Package snapshotget gathers point-in-time snapshots for each configured metric spec from the Kubernetes
// metrics APIs, in the same way the Horizontal Pod Autoscaler gathers metrics. A metric that cannot be
// gathered is reported as unavailable and skipped; the remaining snapshots are still returned.
package snapshotget

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/metric"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// Gatherer allows retrieval of metric snapshots.
type Gatherer interface {
	GetSnapshots(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot
}

// Gather provides functionality for retrieving snapshots for supplied metric specs.
type Gather struct {
	Metrics                       Client
	Clientset                     kubernetes.Interface
	CPUInitializationPeriod       time.Duration
	DelayOfInitialReadinessStatus time.Duration
}

// GetSnapshots processes each metric spec provided, gathering a snapshot for each and combining them into a
// slice before returning them. A spec whose data cannot be gathered is logged and skipped; callers decide
// what an empty result means.
func (g *Gather) GetSnapshots(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot {
	snapshots := make([]*metric.Snapshot, 0, len(specs))
	for _, spec := range specs {
		snapshot, err := g.getSnapshot(spec, namespace, podSelector)
		if err != nil {
			glog.Errorf("Failed to gather %s: %v", spec, err)
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

func (g *Gather) getSnapshot(spec metric.Spec, namespace string, podSelector labels.Selector) (*metric.Snapshot, error) {
	switch spec.Type {
	case metric.ResourceSourceType:
		return g.getResourceSnapshot(spec, namespace, podSelector)
	case metric.PodsSourceType:
		return g.getPodsSnapshot(spec, namespace, podSelector)
	case metric.ExternalSourceType:
		return g.getExternalSnapshot(spec, namespace)
	default:
		return nil, metric.Unavailable(spec, "unknown metric source type %q", string(spec.Type))
	}
}

func (g *Gather) getResourceSnapshot(spec metric.Spec, namespace string, podSelector labels.Selector) (*metric.Snapshot, error) {
	values, timestamp, err := g.Metrics.GetResourceMetric(spec.Resource.Name, namespace, podSelector)
	if err != nil {
		return nil, metric.Unavailable(spec, "%v", err)
	}

	pods, err := g.listPods(namespace, podSelector)
	if err != nil {
		return nil, metric.Unavailable(spec, "unable to list pods: %v", err)
	}

	totalPods := len(pods)
	if totalPods == 0 {
		return nil, metric.Unavailable(spec, "no pods returned by selector %q", podSelector.String())
	}

	readyPodCount, ignoredPods, missingPods := groupPods(pods, values, spec.Resource.Name, g.CPUInitializationPeriod, g.DelayOfInitialReadinessStatus)
	removeValuesForPods(values, ignoredPods)

	snapshot := &metric.Snapshot{
		Spec: spec,
		Resource: &metric.ResourceSnapshot{
			PodUsage:      rawValues(values),
			ReadyPodCount: int64(readyPodCount),
			IgnoredPods:   ignoredPods,
			MissingPods:   missingPods,
			TotalPods:     totalPods,
		},
		Timestamp: timestamp,
	}

	// Requests are only needed when comparing usage as a percentage of what the pods asked for.
	if spec.Resource.Target.Type == metric.UtilizationTargetType {
		requests, err := calculatePodRequests(pods, spec.Resource.Name)
		if err != nil {
			return nil, metric.Unavailable(spec, "%v", err)
		}
		snapshot.Resource.Requests = requests
	}

	return snapshot, nil
}

func (g *Gather) getPodsSnapshot(spec metric.Spec, namespace string, podSelector labels.Selector) (*metric.Snapshot, error) {
	values, timestamp, err := g.Metrics.GetPodsMetric(spec.Pods.Metric, namespace, podSelector)
	if err != nil {
		return nil, metric.Unavailable(spec, "%v", err)
	}

	pods, err := g.listPods(namespace, podSelector)
	if err != nil {
		return nil, metric.Unavailable(spec, "unable to list pods: %v", err)
	}

	totalPods := len(pods)
	if totalPods == 0 {
		return nil, metric.Unavailable(spec, "no pods returned by selector %q", podSelector.String())
	}

	readyPodCount, ignoredPods, missingPods := groupPods(pods, values, "", g.CPUInitializationPeriod, g.DelayOfInitialReadinessStatus)
	removeValuesForPods(values, ignoredPods)

	return &metric.Snapshot{
		Spec: spec,
		Pods: &metric.PodsSnapshot{
			PodValues:     rawValues(values),
			ReadyPodCount: int64(readyPodCount),
			IgnoredPods:   ignoredPods,
			MissingPods:   missingPods,
			TotalPods:     totalPods,
		},
		Timestamp: timestamp,
	}, nil
}

func (g *Gather) getExternalSnapshot(spec metric.Spec, namespace string) (*metric.Snapshot, error) {
	metricSelector := labels.Everything()
	if spec.External.Selector != nil {
		var err error
		metricSelector, err = metav1.LabelSelectorAsSelector(spec.External.Selector)
		if err != nil {
			return nil, metric.Unavailable(spec, "invalid metric selector: %v", err)
		}
	}

	values, timestamp, err := g.Metrics.GetExternalMetric(spec.External.Metric, namespace, metricSelector)
	if err != nil {
		return nil, metric.Unavailable(spec, "%v", err)
	}

	sum := int64(0)
	for _, value := range values {
		sum += value
	}

	return &metric.Snapshot{
		Spec: spec,
		External: &metric.ExternalSnapshot{
			Value: sum,
		},
		Timestamp: timestamp,
	}, nil
}

func (g *Gather) listPods(namespace string, podSelector labels.Selector) ([]corev1.Pod, error) {
	podList, err := g.Clientset.CoreV1().Pods(namespace).List(context.Background(), metav1.ListOptions{LabelSelector: podSelector.String()})
	if err != nil {
		return nil, err
	}
	return podList.Items, nil
}

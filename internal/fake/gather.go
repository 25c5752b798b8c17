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

package fake

import (
	"github.com/horizonscale/horizon-autoscaler/metric"
	"k8s.io/apimachinery/pkg/labels"
)

// Gatherer (fake) provides a way to insert functionality into a snapshotget.Gatherer
type Gatherer struct {
	GetSnapshotsReactor func(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot
}

// GetSnapshots calls the fake Gatherer function
func (f *Gatherer) GetSnapshots(specs []metric.Spec, namespace string, podSelector labels.Selector) []*metric.Snapshot {
	return f.GetSnapshotsReactor(specs, namespace, podSelector)
}

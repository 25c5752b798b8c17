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

// Package scale defines the information fed to the scale applier and piped to pre and post scale hooks.
package scale

import (
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	autoscaling "k8s.io/api/autoscaling/v2"
)

// Info describes a pending scale: the decision to apply and the target it applies to.
type Info struct {
	Decision       evaluate.Decision                        `json:"decision"`
	ScaleTargetRef *autoscaling.CrossVersionObjectReference `json:"scaleTargetRef"`
	Namespace      string                                   `json:"namespace"`
	MinReplicas    int32                                    `json:"minReplicas"`
	MaxReplicas    int32                                    `json:"maxReplicas"`
	RunType        string                                   `json:"runType"`
}

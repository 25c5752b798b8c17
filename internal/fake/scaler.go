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

// Package fake provides reactor driven fakes of the autoscaler's collaborators for use in tests.
package fake

import (
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
)

// Scaling (fake) provides a way to insert functionality into a scaling.Scaler
type Scaling struct {
	GetScaleSubResourceReactor func(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error)
	ScaleReactor               func(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error)
}

// GetScaleSubResource calls the fake Scaling function
func (f *Scaling) GetScaleSubResource(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
	return f.GetScaleSubResourceReactor(apiVersion, kind, namespace, name)
}

// Scale calls the fake Scaling function
func (f *Scaling) Scale(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
	return f.ScaleReactor(info, scaleResource)
}

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

// Package scaling abstracts interactions with the Kubernetes scale API, reading the scale subresource of
// the managed target and applying replica decisions to it. Applying a decision runs the configured pre
// and post scale hooks with the pending scale piped to them as JSON.
package scaling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/hook"
	"github.com/horizonscale/horizon-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	k8sscale "k8s.io/client-go/scale"
)

// ErrTargetNotFound indicates the scale target the autoscaler manages does not exist; the tick is
// aborted and no decision applies.
var ErrTargetNotFound = errors.New("scale target not found")

// Scaler reads and updates the scale subresource of the managed target.
type Scaler interface {
	GetScaleSubResource(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error)
	Scale(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error)
}

// Scale interacts with the Kubernetes scale API, allowing scaling based on decisions.
type Scale struct {
	Scaler     k8sscale.ScalesGetter
	RESTMapper meta.RESTMapper
	Config     *config.Config
	Execute    hook.Executer
}

// GetScaleSubResource fetches the scale subresource of the resource described, reporting
// ErrTargetNotFound when the resource is gone.
func (s *Scale) GetScaleSubResource(apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
	targetGR, err := s.groupResource(apiVersion, kind)
	if err != nil {
		return nil, err
	}

	glog.V(3).Infof("Attempting to get scale subresource for %s %s", kind, name)
	scaleResource, err := s.Scaler.Scales(namespace).Get(context.Background(), targetGR, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrTargetNotFound, err)
		}
		return nil, fmt.Errorf("failed to get scale subresource: %w", err)
	}
	return scaleResource, nil
}

// Scale applies a decision to the target: it runs the pre scale hook, updates the scale subresource if
// the decision changes the replica count, then runs the post scale hook. A no-op decision runs the hooks
// but leaves the target untouched.
func (s *Scale) Scale(info scale.Info, scaleResource *autoscalingv1.Scale) (*evaluate.Decision, error) {
	// Convert the pending scale to JSON for the hooks
	infoJSON, err := json.Marshal(info)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}

	if s.Config.PreScale != nil {
		glog.V(3).Infoln("Attempting to run pre-scaling hook")
		hookResult, err := s.Execute.ExecuteWithValue(s.Config.PreScale, string(infoJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to run pre-scaling hook: %w", err)
		}
		glog.V(3).Infof("Pre-scaling hook response: %+v", hookResult)
	}

	if info.Decision.ScaleChangeRequired() {
		glog.V(0).Infof("Rescaling from %d to %d replicas", info.Decision.CurrentReplicas, info.Decision.DesiredReplicas)
		targetGR, err := s.groupResource(info.ScaleTargetRef.APIVersion, info.ScaleTargetRef.Kind)
		if err != nil {
			return nil, err
		}

		scaleResource.Spec.Replicas = info.Decision.DesiredReplicas
		_, err = s.Scaler.Scales(info.Namespace).Update(context.Background(), targetGR, scaleResource, metav1.UpdateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to apply scaling changes to resource: %w", err)
		}
		glog.V(3).Infoln("Application of scale successful")
	} else {
		glog.V(0).Infof("No change in target replicas, maintaining %d replicas", info.Decision.CurrentReplicas)
	}

	if s.Config.PostScale != nil {
		glog.V(3).Infoln("Attempting to run post-scaling hook")
		hookResult, err := s.Execute.ExecuteWithValue(s.Config.PostScale, string(infoJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to run post-scaling hook: %w", err)
		}
		glog.V(3).Infof("Post-scaling hook response: %+v", hookResult)
	}

	return &info.Decision, nil
}

func (s *Scale) groupResource(apiVersion string, kind string) (schema.GroupResource, error) {
	resourceGV, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return schema.GroupResource{}, fmt.Errorf("failed to parse group version: %w", err)
	}
	mapping, err := s.RESTMapper.RESTMapping(schema.GroupKind{Group: resourceGV.Group, Kind: kind}, resourceGV.Version)
	if err != nil {
		return schema.GroupResource{}, fmt.Errorf("failed to map scale target kind: %w", err)
	}
	return mapping.Resource.GroupResource(), nil
}

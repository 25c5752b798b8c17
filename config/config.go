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

// Package config defines the Horizon Autoscaler configuration: the scale target, the metrics to
// reconcile it against, replica bounds, scaling behavior and runtime options such as the reconcile
// interval and the REST API.
package config

import (
	"errors"
	"fmt"

	"github.com/horizonscale/horizon-autoscaler/behavior"
	"github.com/horizonscale/horizon-autoscaler/metric"
	autoscaling "k8s.io/api/autoscaling/v2"
)

const (
	// APIRunType marks a reconcile as triggered through an API request, which applies the result
	APIRunType = "api"
	// APIDryRunRunType marks a reconcile as triggered through an API request that only views the result
	// and does not apply or record it
	APIDryRunRunType = "api_dry_run"
	// ScalerRunType marks a reconcile as triggered by the interval ticker
	ScalerRunType = "scaler"
)

const (
	// DefaultInterval is the default time in milliseconds between reconciles
	DefaultInterval = 15000
	// DefaultNamespace is the default namespace of the scale target
	DefaultNamespace = "default"
	// DefaultMinReplicas is the default minimum replica count; scale to zero is not supported so this
	// must stay at least 1
	DefaultMinReplicas = 1
	// DefaultMaxReplicas is the default maximum replica count
	DefaultMaxReplicas = 10
	// DefaultStartTime is the default start time alignment in milliseconds
	DefaultStartTime = 1
	// DefaultTolerance is the default band around a usage ratio of 1.0 inside which no scaling happens
	DefaultTolerance = 0.1
	// DefaultLogVerbosity is the default log verbosity
	DefaultLogVerbosity = 0
	// DefaultCPUInitializationPeriod is the default period in seconds after pod start during which CPU
	// readiness is judged from the pod condition rather than the sample window
	DefaultCPUInitializationPeriod = 300
	// DefaultInitialReadinessDelay is the default period in seconds after pod start during which an
	// unready pod is treated as never having been ready
	DefaultInitialReadinessDelay = 30
)

// ErrInvalidSpec indicates the configuration is rejected at load time and no reconcile may run with it.
var ErrInvalidSpec = errors.New("invalid autoscaler spec")

// Config is the runtime configuration of the autoscaler.
type Config struct {
	ScaleTargetRef          *autoscaling.CrossVersionObjectReference `json:"scaleTargetRef"`
	Namespace               string                                   `json:"namespace"`
	Metrics                 []metric.Spec                            `json:"metrics"`
	Behavior                *behavior.Behavior                       `json:"behavior,omitempty"`
	MinReplicas             int32                                    `json:"minReplicas"`
	MaxReplicas             int32                                    `json:"maxReplicas"`
	Tolerance               float64                                  `json:"tolerance"`
	Interval                int                                      `json:"interval"`
	StartTime               int64                                    `json:"startTime"`
	LogVerbosity            int32                                    `json:"logVerbosity"`
	CPUInitializationPeriod int                                      `json:"cpuInitializationPeriod"`
	InitialReadinessDelay   int                                      `json:"initialReadinessDelay"`
	PreScale                *Method                                  `json:"preScale,omitempty"`
	PostScale               *Method                                  `json:"postScale,omitempty"`
	APIConfig               *APIConfig                               `json:"apiConfig"`
}

// TargetKey identifies the scale target the configuration manages, used to key per-target state such as
// recommendation history.
func (c *Config) TargetKey() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.Namespace, c.ScaleTargetRef.APIVersion, c.ScaleTargetRef.Kind, c.ScaleTargetRef.Name)
}

// APIConfig holds the REST API configuration.
type APIConfig struct {
	Enabled  bool   `json:"enabled"`
	UseHTTPS bool   `json:"useHTTPS"`
	Port     int    `json:"port"`
	Host     string `json:"host"`
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

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
	"github.com/horizonscale/horizon-autoscaler/evaluate"
)

// Runner (fake) provides a way to insert functionality into an api Runner
type Runner struct {
	ScaleReactor  func(runType string) (*evaluate.Decision, error)
	DryRunReactor func() (*evaluate.Decision, error)
}

// Scale calls the fake Runner function
func (f *Runner) Scale(runType string) (*evaluate.Decision, error) {
	return f.ScaleReactor(runType)
}

// DryRun calls the fake Runner function
func (f *Runner) DryRun() (*evaluate.Decision, error) {
	return f.DryRunReactor()
}

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

// Package v1 provides routing and endpoints for the Horizon Autoscaler HTTP REST API version 1.
// Endpoints implemented as handlers, errors returned as valid JSON.
package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	apiv1 "github.com/horizonscale/horizon-autoscaler/api/v1"
	"github.com/horizonscale/horizon-autoscaler/config"
	"github.com/horizonscale/horizon-autoscaler/evaluate"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
)

const (
	dryRunQueryParam = "dry_run"
)

// Runner triggers reconciles of the managed target, either applied or as dry runs.
type Runner interface {
	Scale(runType string) (*evaluate.Decision, error)
	DryRun() (*evaluate.Decision, error)
}

// API is the Horizon Autoscaler REST API, exposing endpoints to view and trigger scaling decisions
type API struct {
	Router     chi.Router
	Config     *config.Config
	Runner     Runner
	Reconciler reconcile.Reconciler
}

// Routes sets up routing for the API
func (api *API) Routes() {
	api.Router.Route("/api/v1", func(r chi.Router) {
		r.NotFound(api.notFound)
		r.MethodNotAllowed(api.methodNotAllowed)
		r.Get("/decision", api.getDecision)
		r.Post("/reconcile", api.postReconcile)
		r.Get("/history", api.getHistory)
	})
}

// getDecision computes what the autoscaler would do right now, without applying it or recording it in the
// target's history.
func (api *API) getDecision(w http.ResponseWriter, r *http.Request) {
	decision, err := api.Runner.DryRun()
	if err != nil {
		apiError(w, &apiv1.Error{
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response, err := json.Marshal(decision)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// postReconcile triggers a full reconcile, applying the decision unless the dry_run query parameter is set.
func (api *API) postReconcile(w http.ResponseWriter, r *http.Request) {
	// Determine if it is a dry run
	dryRun := false
	dryRunParam := r.URL.Query().Get(dryRunQueryParam)
	if dryRunParam != "" {
		b, err := strconv.ParseBool(dryRunParam)
		if err != nil {
			apiError(w, &apiv1.Error{
				Message: fmt.Sprintf("Invalid format for 'dry_run' query parameter; '%s' is not a valid boolean value", dryRunParam),
				Code:    http.StatusBadRequest,
			})
			return
		}
		dryRun = b
	}

	var decision *evaluate.Decision
	var err error
	if dryRun {
		decision, err = api.Runner.DryRun()
	} else {
		decision, err = api.Runner.Scale(config.APIRunType)
	}
	if err != nil {
		apiError(w, &apiv1.Error{
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response, err := json.Marshal(decision)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// getHistory returns the recommendation and scale event history of the managed target.
func (api *API) getHistory(w http.ResponseWriter, r *http.Request) {
	targetHistory := api.Reconciler.History(api.Config.TargetKey())

	response, err := json.Marshal(targetHistory)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (api *API) notFound(w http.ResponseWriter, r *http.Request) {
	apiError(w, &apiv1.Error{
		Message: fmt.Sprintf("Resource '%s' not found", r.URL.Path),
		Code:    http.StatusNotFound,
	})
}

func (api *API) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiError(w, &apiv1.Error{
		Message: fmt.Sprintf("Method '%s' not allowed on resource '%s'", r.Method, r.URL.Path),
		Code:    http.StatusMethodNotAllowed,
	})
}

func apiError(w http.ResponseWriter, apiErr *apiv1.Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	response, err := json.Marshal(apiErr)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(apiErr.Code)
	w.Write(response)
}

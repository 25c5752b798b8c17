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

// Package v1 defines the public types of the Horizon Autoscaler HTTP REST API version 1.
package v1

// Error is an error response from the API, with the status code and an error message
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

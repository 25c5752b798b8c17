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

// Package confload handles loading in configuration - parsing YAML and environment variable input into a
// Horizon Autoscaler configuration struct. Contains a set of defaults that can be overridden by provided
// YAML and env vars. Loaded configuration is validated before any reconcile may run; a spec that fails
// validation is a blocking configuration error, never a mid-loop failure.
package confload

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"

	"github.com/horizonscale/horizon-autoscaler/config"
	"k8s.io/apimachinery/pkg/util/yaml"
)

const jsonStructTag = "json"

// Load loads in the default configuration, then overrides it from the config file, then any env vars
// set, then validates the result.
func Load(configFileData []byte, envVars map[string]string) (*config.Config, error) {
	loaded := newDefaultConfig()
	err := loadFromBytes(configFileData, loaded)
	if err != nil {
		return nil, err
	}
	err = loadFromEnv(loaded, envVars)
	if err != nil {
		return nil, err
	}
	err = Validate(loaded)
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadFromBytes(data []byte, loaded *config.Config) error {
	// If no bytes file data provided, skip trying to parse it
	if data == nil {
		return nil
	}
	err := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 10).Decode(loaded)
	if err != nil {
		return err
	}
	return nil
}

func loadFromEnv(loaded *config.Config, envVars map[string]string) error {
	// Get config Go types and values
	configTypes := reflect.TypeOf(loaded).Elem()
	configValues := reflect.ValueOf(loaded).Elem()

	// Iterate through each field in the config
	for i := 0; i < configTypes.NumField(); i++ {
		// Get each field's type and value
		fieldType := configTypes.Field(i)
		fieldValue := configValues.Field(i)

		// Extract JSON tag from the type, e.g `json:"example"` would return example
		tag := strings.Split(fieldType.Tag.Get(jsonStructTag), ",")[0]

		// Check if there is an environment variable provided with the same tag
		value, exists := envVars[tag]
		if !exists {
			continue
		}

		// Assign values using correct types
		if fieldValue.Kind() == reflect.String {
			fieldValue.SetString(value)
			continue
		}
		if fieldValue.Kind() == reflect.Int {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			fieldValue.SetInt(intVal)
			continue
		}

		// If the type is not one of the primitives above, it must be in JSON or YAML form, so try to parse
		// it and set the value from the unmarshalled JSON or YAML value
		fieldRef := reflect.New(fieldType.Type)
		err := yaml.NewYAMLOrJSONDecoder(strings.NewReader(value), 10).Decode(fieldRef.Interface())
		if err != nil {
			return err
		}

		fieldValue.Set(fieldRef.Elem())
	}
	return nil
}

func newDefaultConfig() *config.Config {
	return &config.Config{
		Namespace:               config.DefaultNamespace,
		MinReplicas:             config.DefaultMinReplicas,
		MaxReplicas:             config.DefaultMaxReplicas,
		Tolerance:               config.DefaultTolerance,
		Interval:                config.DefaultInterval,
		StartTime:               config.DefaultStartTime,
		LogVerbosity:            config.DefaultLogVerbosity,
		CPUInitializationPeriod: config.DefaultCPUInitializationPeriod,
		InitialReadinessDelay:   config.DefaultInitialReadinessDelay,
		APIConfig: &config.APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    5000,
		},
	}
}

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

// Horizon Autoscaler is a horizontal autoscaler that runs inside a Kubernetes cluster. It watches a single
// scale target, gathers the configured metrics on an interval, runs them through the replica decision
// algorithm and applies the result through the scale subresource. It exposes a simple HTTP REST API for
// viewing and triggering decisions, and Prometheus instrumentation for the reconcile loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang/glog"
	"github.com/horizonscale/horizon-autoscaler/config"
	apiv1 "github.com/horizonscale/horizon-autoscaler/internal/api/v1"
	"github.com/horizonscale/horizon-autoscaler/internal/autoscaler"
	"github.com/horizonscale/horizon-autoscaler/internal/confload"
	"github.com/horizonscale/horizon-autoscaler/internal/hook"
	"github.com/horizonscale/horizon-autoscaler/internal/measure"
	"github.com/horizonscale/horizon-autoscaler/internal/reconcile"
	"github.com/horizonscale/horizon-autoscaler/internal/scaling"
	"github.com/horizonscale/horizon-autoscaler/internal/snapshotget"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cacheddiscovery "k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	k8sscale "k8s.io/client-go/scale"
	resourceclient "k8s.io/metrics/pkg/client/clientset/versioned/typed/metrics/v1beta1"
	"k8s.io/metrics/pkg/client/custom_metrics"
	"k8s.io/metrics/pkg/client/external_metrics"
)

const (
	configEnvName                  = "configPath"
	namespaceEnvName               = "namespace"
	scaleTargetRefEnvName          = "scaleTargetRef"
	metricsEnvName                 = "metrics"
	behaviorEnvName                = "behavior"
	minReplicasEnvName             = "minReplicas"
	maxReplicasEnvName             = "maxReplicas"
	toleranceEnvName               = "tolerance"
	intervalEnvName                = "interval"
	startTimeEnvName               = "startTime"
	logVerbosityEnvName            = "logVerbosity"
	cpuInitializationPeriodEnvName = "cpuInitializationPeriod"
	initialReadinessDelayEnvName   = "initialReadinessDelay"
	apiConfigEnvName               = "apiConfig"
)

const defaultConfig = "/config.yaml"

// How often the set of available custom metrics APIs is rediscovered
const apiDiscoveryInvalidationInterval = 10 * time.Minute

func main() {
	// Read in environment variables
	configPath, exists := os.LookupEnv(configEnvName)
	if !exists {
		configPath = defaultConfig
	}
	configEnvs := readEnvVars()

	// Read in config file
	configFileData, err := os.ReadFile(configPath)
	if err != nil {
		glog.Fatalf("Failed to read configuration file: %v", err)
	}

	// Load autoscaler config
	loadedConfig, err := confload.Load(configFileData, configEnvs)
	if err != nil {
		glog.Fatalf("Failed to parse configuration: %v", err)
	}

	// Configure logging verbosity
	flag.Parse()
	err = flag.Lookup("v").Value.Set(fmt.Sprint(loadedConfig.LogVerbosity))
	if err != nil {
		glog.Fatalf("Failed to set log verbosity: %v", err)
	}

	// Create the in-cluster Kubernetes config
	clusterConfig, err := rest.InClusterConfig()
	if err != nil {
		glog.Fatalf("Failed to create in-cluster Kubernetes config: %v", err)
	}

	// Create the Kubernetes clientset
	clientset, err := kubernetes.NewForConfig(clusterConfig)
	if err != nil {
		glog.Fatalf("Failed to create Kubernetes clientset: %v", err)
	}

	// Use a discovery client capable of being refreshed
	cachedDiscovery := cacheddiscovery.NewMemCacheClient(clientset.Discovery())
	restMapper := restmapper.NewDeferredDiscoveryRESTMapper(cachedDiscovery)

	// Set up the scale subresource client
	scaleKindResolver := k8sscale.NewDiscoveryScaleKindResolver(clientset.Discovery())
	scaleClient, err := k8sscale.NewForConfig(clusterConfig, restMapper, dynamic.LegacyAPIPathResolverFunc, scaleKindResolver)
	if err != nil {
		glog.Fatalf("Failed to create scale client: %v", err)
	}

	// Set up the metrics API clients
	metricsClient, err := resourceclient.NewForConfig(clusterConfig)
	if err != nil {
		glog.Fatalf("Failed to create resource metrics client: %v", err)
	}
	apiVersionsGetter := custom_metrics.NewAvailableAPIsGetter(clientset.Discovery())
	customMetricsClient := custom_metrics.NewForConfig(clusterConfig, restMapper, apiVersionsGetter)
	externalMetricsClient, err := external_metrics.NewForConfig(clusterConfig)
	if err != nil {
		glog.Fatalf("Failed to create external metrics client: %v", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go custom_metrics.PeriodicallyInvalidate(apiVersionsGetter, apiDiscoveryInvalidationInterval, stop)

	// Set up hook executers
	executer := &hook.CombinedExecute{
		Executers: []hook.Executer{
			&hook.ShellExecute{
				Command: exec.Command,
			},
			hook.DefaultHTTPExecute(),
		},
	}

	// Set up snapshot gathering
	gatherer := &snapshotget.Gather{
		Metrics: &snapshotget.RESTClient{
			Client:                metricsClient,
			ExternalMetricsClient: externalMetricsClient,
			CustomMetricsClient:   customMetricsClient,
		},
		Clientset:                     clientset,
		CPUInitializationPeriod:       time.Duration(loadedConfig.CPUInitializationPeriod) * time.Second,
		DelayOfInitialReadinessStatus: time.Duration(loadedConfig.InitialReadinessDelay) * time.Second,
	}

	// Set up the decision engine and scale applier
	engine := reconcile.NewEngine()
	scaler := &scaling.Scale{
		Scaler:     scaleClient,
		RESTMapper: restMapper,
		Config:     loadedConfig,
		Execute:    executer,
	}
	runner := &autoscaler.Scaler{
		Scaler:     scaler,
		Config:     loadedConfig,
		Gatherer:   gatherer,
		Reconciler: engine,
	}

	// Set up API
	api := &apiv1.API{
		Router:     chi.NewRouter(),
		Config:     loadedConfig,
		Runner:     runner,
		Reconciler: engine,
	}
	api.Routes()
	api.Router.Handle("/metrics", promhttp.HandlerFor(measure.NewRegistry(), promhttp.HandlerOpts{}))
	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", loadedConfig.APIConfig.Host, loadedConfig.APIConfig.Port),
		Handler: api.Router,
	}

	// Align the first tick so restarts keep a stable reconcile cadence
	delayTime := loadedConfig.StartTime - (time.Now().UTC().UnixNano() / int64(time.Millisecond) % loadedConfig.StartTime)
	delayStartTimer := time.NewTimer(time.Duration(delayTime) * time.Millisecond)

	glog.V(0).Infof("Waiting %d milliseconds before starting autoscaler", delayTime)

	go func() {
		// Wait for delay to start at expected time
		<-delayStartTimer.C
		glog.V(0).Infoln("Starting autoscaler")
		// Set up time ticker with configured interval
		ticker := time.NewTicker(time.Duration(loadedConfig.Interval) * time.Millisecond)
		// Set up shutdown channel, which will listen for UNIX shutdown commands
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

		// Run a reconcile in a goroutine, triggered by the ticker,
		// listen for shutdown requests, once received shut down the autoscaler
		// and the API
		go func() {
			for {
				select {
				case <-shutdown:
					glog.V(0).Infoln("Shutting down...")
					// Stop API
					ctx, cancel := context.WithCancel(context.Background())
					defer cancel()
					srv.Shutdown(ctx)
					// Stop autoscaler
					ticker.Stop()
					return
				case <-ticker.C:
					_, err := runner.Scale(config.ScalerRunType)
					if err != nil {
						glog.Errorln(err)
					}
				}
			}
		}()
	}()

	if !loadedConfig.APIConfig.Enabled {
		glog.V(0).Infoln("API disabled, autoscaler running in ticker-only mode")
		select {}
	}

	glog.V(0).Infoln("Starting API")
	if loadedConfig.APIConfig.UseHTTPS {
		err = srv.ListenAndServeTLS(loadedConfig.APIConfig.CertFile, loadedConfig.APIConfig.KeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		glog.Fatalf("API server failed: %v", err)
	}
}

// readEnvVars loads in all relevant environment variables if they exist,
// putting them in a key-value map
func readEnvVars() map[string]string {
	configEnvsNames := []string{
		namespaceEnvName,
		scaleTargetRefEnvName,
		metricsEnvName,
		behaviorEnvName,
		minReplicasEnvName,
		maxReplicasEnvName,
		toleranceEnvName,
		intervalEnvName,
		startTimeEnvName,
		logVerbosityEnvName,
		cpuInitializationPeriodEnvName,
		initialReadinessDelayEnvName,
		apiConfigEnvName,
	}
	configEnvs := map[string]string{}
	for _, envName := range configEnvsNames {
		value, exists := os.LookupEnv(envName)
		if exists {
			configEnvs[envName] = value
		}
	}
	return configEnvs
}

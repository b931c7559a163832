/*
Copyright 2026 The faster-outlines-go Authors.

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

// Package metrics exposes Prometheus counters and histograms for the
// WorkerPool and IndexCache. Collection is opt-in: callers must call
// Register before these metrics are scraped, and the engine itself
// never calls Register implicitly.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"k8s.io/klog/v2"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// StatesExpanded counts how many StateExpander.Expand calls a
	// WorkerPool has completed across all indices.
	StatesExpanded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "faster_outlines", Subsystem: "pool", Name: "states_expanded_total",
		Help: "Total number of FSM states expanded by the worker pool",
	})
	// WorkerPanics counts recovered panics during state expansion.
	WorkerPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "faster_outlines", Subsystem: "pool", Name: "worker_panics_total",
		Help: "Total number of worker panics recovered during state expansion",
	})
	// ExpandLatency records the latency of a single Expand call.
	ExpandLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "faster_outlines", Subsystem: "pool", Name: "expand_latency_seconds",
		Help:    "Latency of a single state expansion",
		Buckets: prometheus.DefBuckets,
	})

	// CacheLookups counts IndexCache.GetOrCreate calls.
	CacheLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "faster_outlines", Subsystem: "cache", Name: "lookups_total",
		Help: "Total number of IndexCache lookups",
	})
	// CacheHits counts IndexCache.GetOrCreate calls that found an
	// existing LazyIndex.
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "faster_outlines", Subsystem: "cache", Name: "hits_total",
		Help: "Number of IndexCache lookups that found an existing index",
	})
	// CacheEvictions counts entries evicted from the IndexCache.
	CacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "faster_outlines", Subsystem: "cache", Name: "evictions_total",
		Help: "Total number of IndexCache evictions",
	})
)

// Collectors returns every collector this package registers.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		StatesExpanded, WorkerPanics, ExpandLatency,
		CacheLookups, CacheHits, CacheEvictions,
	}
}

var registerMetricsOnce sync.Once

// Register registers all metrics with the controller-runtime registry.
// Safe to call more than once; registration happens at most once per
// process.
func Register() {
	registerMetricsOnce.Do(func() {
		metrics.Registry.MustRegister(Collectors()...)
	})
}

// StartMetricsLogging spawns a goroutine that logs current metric
// values every interval, until ctx is cancelled.
func StartMetricsLogging(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logMetrics(ctx)
			}
		}
	}()
}

func logMetrics(ctx context.Context) {
	var expanded, panics, lookups, hits, evictions dto.Metric

	if err := StatesExpanded.Write(&expanded); err != nil {
		return
	}
	if err := WorkerPanics.Write(&panics); err != nil {
		return
	}
	if err := CacheLookups.Write(&lookups); err != nil {
		return
	}
	if err := CacheHits.Write(&hits); err != nil {
		return
	}
	if err := CacheEvictions.Write(&evictions); err != nil {
		return
	}

	klog.FromContext(ctx).WithName("metrics").Info("metrics beat",
		"statesExpanded", expanded.GetCounter().GetValue(),
		"workerPanics", panics.GetCounter().GetValue(),
		"cacheLookups", lookups.GetCounter().GetValue(),
		"cacheHits", hits.GetCounter().GetValue(),
		"cacheEvictions", evictions.GetCounter().GetValue(),
	)
}

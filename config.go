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

package outlines

import "github.com/faster-outlines/faster-outlines-go/pkg/cache"

// config holds the resolved settings for an Engine, assembled from
// defaultConfig and any Options passed to New.
type config struct {
	workerCount int
	cache       *cache.Config
	listeners   []cache.Listener
}

// Option configures an Engine at construction time. New takes a
// variadic list of these rather than a single Config struct so callers
// only need to name the handful of settings they want to override,
// leaving everything else at its default.
type Option func(*config)

// WithWorkerCount overrides the WorkerPool size computed from the
// host's hardware parallelism and the FASTER_OUTLINES_NUM_THREADS
// environment variable. An explicit override like this one always
// wins over both.
func WithWorkerCount(n int) Option {
	return func(c *config) {
		c.workerCount = n
	}
}

// WithRistrettoCache switches the IndexCache to the ristretto backend
// instead of the default count-bounded LRU. size is a human-readable
// value (e.g. "512MiB") used as ristretto's MaxCost with a cost of 1 per
// entry; see cache.Config.RistrettoSize.
func WithRistrettoCache(size string) Option {
	return func(c *config) {
		c.cache.RistrettoSize = size
	}
}

// WithCacheSize overrides the default LRU backend's entry capacity,
// taking precedence over FASTER_OUTLINES_CACHE_SIZE.
func WithCacheSize(size int) Option {
	return func(c *config) {
		c.cache.Size = size
	}
}

// WithCacheDisabled forces the IndexCache to always miss and never
// insert, taking precedence over FASTER_OUTLINES_DISABLE_CACHE.
func WithCacheDisabled() Option {
	return func(c *config) {
		c.cache.Disabled = true
	}
}

// WithCacheListener registers l to observe this Engine's IndexCache
// admissions and evictions. pkg/broadcast.Publisher satisfies this
// interface, so a caller running a fleet of decoder replicas can wire
// cluster-wide cache-churn visibility with
// WithCacheListener(publisher). May be passed more than once.
func WithCacheListener(l cache.Listener) Option {
	return func(c *config) {
		c.listeners = append(c.listeners, l)
	}
}

func defaultConfig() *config {
	return &config{cache: &cache.Config{}}
}

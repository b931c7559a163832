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

// Package envconfig parses the FASTER_OUTLINES_* environment variables
// documented as this module's external configuration surface.
package envconfig

import (
	"os"
	"strconv"
	"strings"
)

const (
	// EnvNumThreads overrides the worker-pool size computed from
	// available hardware parallelism.
	EnvNumThreads = "FASTER_OUTLINES_NUM_THREADS"
	// EnvCacheSize overrides the IndexCache's LRU capacity.
	EnvCacheSize = "FASTER_OUTLINES_CACHE_SIZE"
	// EnvDisableCache, when truthy, makes the IndexCache always miss and
	// never insert.
	EnvDisableCache = "FASTER_OUTLINES_DISABLE_CACHE"

	// DefaultCacheSize is used when EnvCacheSize is unset or invalid.
	DefaultCacheSize = 50
)

// NumThreads returns the worker count override, and whether one was set.
func NumThreads() (int, bool) {
	return parseIntEnv(EnvNumThreads)
}

// CacheSize returns the configured LRU capacity, falling back to
// DefaultCacheSize if unset or invalid.
func CacheSize() int {
	if v, ok := parseIntEnv(EnvCacheSize); ok && v > 0 {
		return v
	}
	return DefaultCacheSize
}

// CacheDisabled reports whether FASTER_OUTLINES_DISABLE_CACHE is truthy.
func CacheDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDisableCache))) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func parseIntEnv(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return v, true
}

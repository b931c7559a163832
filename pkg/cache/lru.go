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

// Package cache implements the process-wide fingerprint -> LazyIndex
// LRU and the hash that keys it.
package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/faster-outlines/faster-outlines-go/pkg/envconfig"
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/indexing"
	"github.com/faster-outlines/faster-outlines-go/pkg/metrics"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// Listener observes IndexCache admission/eviction lifecycle events.
// pkg/broadcast.Publisher implements it, so it can be wired in without
// the cache knowing about it; pkg/metrics counters are updated by the
// cache directly rather than through a Listener.
type Listener interface {
	OnAdmit(fingerprint uint64)
	OnEvict(fingerprint uint64)
}

// backend abstracts the two interchangeable storage strategies: one
// bounded by entry count, one bounded by an approximate memory budget.
type backend interface {
	get(fingerprint uint64) (*indexing.LazyIndex, bool)
	add(fingerprint uint64, idx *indexing.LazyIndex)
}

// lruBackend bounds the cache by entry count via hashicorp/golang-lru.
type lruBackend struct {
	data *lru.Cache[uint64, *indexing.LazyIndex]
}

func newLRUBackend(size int, onEvict func(uint64, *indexing.LazyIndex)) (*lruBackend, error) {
	c, err := lru.NewWithEvict[uint64, *indexing.LazyIndex](size, onEvict)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to create LRU backend: %w", err)
	}
	return &lruBackend{data: c}, nil
}

func (b *lruBackend) get(fingerprint uint64) (*indexing.LazyIndex, bool) {
	return b.data.Get(fingerprint)
}

func (b *lruBackend) add(fingerprint uint64, idx *indexing.LazyIndex) {
	b.data.Add(fingerprint, idx)
}

// ristrettoBackend stores entries in dgraph-io/ristretto, with MaxCost
// parsed from a human-readable size string (e.g. "512MiB") by
// dustin/go-humanize. Each entry is charged a nominal unit cost: a
// LazyIndex's real footprint grows as its rows are filled in lazily by
// the WorkerPool, so there is no stable byte size to charge at insertion
// time. The parsed byte count therefore acts as an entry limit; the
// memory the cached indices actually use is not measured or bounded.
type ristrettoBackend struct {
	data *ristretto.Cache[uint64, *indexing.LazyIndex]
}

const ristrettoBufferItems = 64

// The ristretto backend does not notify Listeners on eviction: it has
// no per-key eviction callback the way the LRU backend does, so cache
// churn visibility (metrics, broadcast) is only wired for the default
// lruBackend.
func newRistrettoBackend(sizeHuman string) (*ristrettoBackend, error) {
	maxCost, err := humanize.ParseBytes(sizeHuman)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to parse cache size %q: %w", sizeHuman, err)
	}

	c, err := ristretto.NewCache(&ristretto.Config[uint64, *indexing.LazyIndex]{
		NumCounters: int64(maxCost) * 10, //nolint:gosec // bounded by a human-entered config string
		MaxCost:     int64(maxCost),      //nolint:gosec // bounded by a human-entered config string
		BufferItems: ristrettoBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: failed to create ristretto backend: %w", err)
	}

	return &ristrettoBackend{data: c}, nil
}

func (b *ristrettoBackend) get(fingerprint uint64) (*indexing.LazyIndex, bool) {
	return b.data.Get(fingerprint)
}

func (b *ristrettoBackend) add(fingerprint uint64, idx *indexing.LazyIndex) {
	b.data.Set(fingerprint, idx, 1)
	b.data.Wait()
}

// Config selects and sizes an IndexCache backend.
type Config struct {
	// RistrettoSize, when non-empty, selects the ristretto backend
	// instead of the default count-bounded LRU. It is a human-readable
	// size (e.g. "512MiB") used as ristretto's MaxCost; entries are
	// charged a cost of 1 each, so it limits the entry count, not memory.
	RistrettoSize string
	// Size is the LRU backend's entry capacity. Ignored when
	// RistrettoSize is set. Zero means "read from pkg/envconfig".
	Size int
	// Disabled forces "always miss, never insert" regardless of the
	// FASTER_OUTLINES_DISABLE_CACHE environment variable. Zero value
	// defers to the environment.
	Disabled bool
}

// Cache is the process-wide fingerprint -> LazyIndex LRU. Lookup
// either returns an existing handle (callers sharing it observe all
// completed and future work) or constructs a fresh LazyIndex, enqueues
// its initial state on pool, and inserts it.
type Cache struct {
	backend   backend
	disabled  bool
	pool      *indexing.Pool
	group     singleflight.Group
	listeners []Listener
}

// AddListener registers l to be notified of future admissions and
// evictions. Not retroactive: l only observes events after it is
// added. Safe to call before the Cache serves any GetOrCreate calls;
// not safe to call concurrently with them.
func (c *Cache) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Cache) notifyAdmit(fingerprint uint64) {
	for _, l := range c.listeners {
		l.OnAdmit(fingerprint)
	}
}

func (c *Cache) notifyEvict(fingerprint uint64) {
	for _, l := range c.listeners {
		l.OnEvict(fingerprint)
	}
}

// NewCache builds an IndexCache backed by cfg. A nil cfg reads capacity
// and the disabled flag from pkg/envconfig.
func NewCache(cfg *Config, pool *indexing.Pool) (*Cache, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	idx := &Cache{pool: pool}
	idx.disabled = cfg.Disabled || envconfig.CacheDisabled()

	if idx.disabled {
		return idx, nil
	}

	var b backend
	var err error
	if cfg.RistrettoSize != "" {
		b, err = newRistrettoBackend(cfg.RistrettoSize)
	} else {
		size := cfg.Size
		if size <= 0 {
			size = envconfig.CacheSize()
		}
		b, err = newLRUBackend(size, func(fingerprint uint64, _ *indexing.LazyIndex) {
			metrics.CacheEvictions.Inc()
			idx.notifyEvict(fingerprint)
		})
	}
	if err != nil {
		return nil, err
	}

	idx.backend = b
	return idx, nil
}

// GetOrCreate returns the LazyIndex for (pattern, vocab)'s fingerprint,
// building one and enqueueing its initial state on the pool if absent.
// Concurrent GetOrCreate calls for the same fingerprint collapse onto a
// single construction via singleflight, so callers racing on a cold
// fingerprint never build and enqueue duplicate indices.
func (c *Cache) GetOrCreate(info *fsm.Info, vocab *vocabulary.Vocabulary) (*indexing.LazyIndex, uint64, error) {
	fingerprint, err := Fingerprint(info.Pattern, vocab)
	if err != nil {
		return nil, 0, err
	}

	metrics.CacheLookups.Inc()

	if c.disabled {
		idx := indexing.NewLazyIndex(info, vocab)
		c.pool.Enqueue(idx, idx.InitialJob())
		return idx, fingerprint, nil
	}

	if existing, ok := c.backend.get(fingerprint); ok {
		metrics.CacheHits.Inc()
		return existing, fingerprint, nil
	}

	result, err, _ := c.group.Do(fmt.Sprintf("%d", fingerprint), func() (interface{}, error) {
		if existing, ok := c.backend.get(fingerprint); ok {
			metrics.CacheHits.Inc()
			return existing, nil
		}

		idx := indexing.NewLazyIndex(info, vocab)
		c.pool.Enqueue(idx, idx.InitialJob())
		c.backend.add(fingerprint, idx)
		c.notifyAdmit(fingerprint)
		return idx, nil
	})
	if err != nil {
		return nil, 0, err
	}

	return result.(*indexing.LazyIndex), fingerprint, nil
}

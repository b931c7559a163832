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

import (
	"context"
	"sync"

	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/cache"
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/indexing"
)

// Re-exported so callers need only import this package for the common
// path: building a LazyIndex and driving it through the public
// contract.
type (
	StateId     = fsm.StateId
	TokenId     = indexing.TokenId
	Instruction = indexing.Instruction
	LazyIndex   = indexing.LazyIndex
	FsmInfo     = fsm.Info
)

// FinalStateMarker is the sentinel TransitionRow value meaning "this
// token completes the pattern." See pkg/indexing for the fixed
// representation this module settles on.
const FinalStateMarker = indexing.FinalStateMarker

// NewFsmInfo builds an FsmInfo. See pkg/fsm.New.
func NewFsmInfo(
	pattern string,
	initial StateId,
	finals map[StateId]struct{},
	transitions map[fsm.TransitionKey]StateId,
	alphabetSymbolMapping map[rune]fsm.Symbol,
	alphabetAnythingValue fsm.Symbol,
	states []StateId,
) (*FsmInfo, error) {
	return fsm.New(pattern, initial, finals, transitions, alphabetSymbolMapping, alphabetAnythingValue, states)
}

// Engine is the construction entry point: a process-wide WorkerPool
// and IndexCache pair. Most host applications need exactly one Engine,
// shared across every pattern and request they serve.
type Engine struct {
	pool  *indexing.Pool
	cache *cache.Cache

	cancel context.CancelFunc
	runErr error
	runWg  sync.WaitGroup
}

// New builds an Engine and starts its WorkerPool in the background. The
// pool and every LazyIndex it ever populates run until ctx is
// cancelled; callers should typically derive ctx from an
// application-lifetime context and cancel it at shutdown.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pool := indexing.NewPool(cfg.workerCount)

	indexCache, err := cache.NewCache(cfg.cache, pool)
	if err != nil {
		return nil, err
	}
	for _, l := range cfg.listeners {
		indexCache.AddListener(l)
	}

	runCtx, cancel := context.WithCancel(ctx)

	e := &Engine{
		pool:   pool,
		cache:  indexCache,
		cancel: cancel,
	}

	e.runWg.Add(1)
	go func() {
		defer e.runWg.Done()
		if err := pool.Run(runCtx); err != nil {
			klog.FromContext(runCtx).Error(err, "worker pool exited with error")
			e.runErr = err
		}
	}()

	return e, nil
}

// WorkerCount reports how many worker goroutines this Engine's pool
// runs.
func (e *Engine) WorkerCount() int {
	return e.pool.Workers()
}

// Index returns the LazyIndex for (info, vocab)'s fingerprint,
// constructing and enqueueing one if this is the first time this
// Engine has seen that fingerprint. The returned handle remains valid
// and continues to make progress for as long as the Engine's pool is
// running, even if it is later evicted from the cache.
func (e *Engine) Index(info *FsmInfo, vocab *Vocabulary) (*LazyIndex, error) {
	idx, _, err := e.cache.GetOrCreate(info, vocab)
	return idx, err
}

// Shutdown cancels the Engine's background context and waits for the
// WorkerPool to drain and exit.
func (e *Engine) Shutdown() error {
	e.cancel()
	e.runWg.Wait()
	return e.runErr
}

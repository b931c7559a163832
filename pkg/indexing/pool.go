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

package indexing

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/envconfig"
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/logging"
	"github.com/faster-outlines/faster-outlines-go/pkg/metrics"
)

// Job is a single unit of work for the pool: expand one state of one
// index. The pool is process-wide and shared across every LazyIndex
// the Engine ever builds, rather than spinning up dedicated workers
// per pattern.
type Job struct {
	Index *LazyIndex
	State fsm.StateId
}

// Pool is the fixed-size worker pool pulling from one shared FIFO job
// queue. Workers never block each other on different indices;
// fairness across indices is not guaranteed.
type Pool struct {
	workers int
	queue   workqueue.TypedRateLimitingInterface[Job]
	wg      sync.WaitGroup
}

// workerCount sizes the pool from the host's available parallelism,
// deferring to FASTER_OUTLINES_NUM_THREADS or an explicit override when
// given. Hosts with up to 4 cores get one worker, up to 8 get two, and
// larger ones taper to roughly a quarter of GOMAXPROCS, capped at 16 so a huge
// host doesn't spawn an unreasonable number of goroutines contending on
// one queue.
func workerCount(override int) int {
	if override > 0 {
		return override
	}

	if n, ok := envconfig.NumThreads(); ok && n > 0 {
		return n
	}

	h := runtime.GOMAXPROCS(0)
	switch {
	case h <= 4:
		return 1
	case h <= 8:
		return 2
	default:
		n := h / 4
		if n < 2 {
			n = 2
		}
		if n > 16 {
			n = 16
		}
		return n
	}
}

// NewPool creates a Pool sized per workerCount. override, when > 0,
// takes precedence over both hardware-derived sizing and the
// environment variable.
func NewPool(override int) *Pool {
	return &Pool{
		workers: workerCount(override),
		queue:   workqueue.NewTypedRateLimitingQueue(workqueue.DefaultTypedControllerRateLimiter[Job]()),
	}
}

// Workers reports how many worker goroutines this pool runs.
func (p *Pool) Workers() int {
	return p.workers
}

// Enqueue schedules a job. Safe to call concurrently, including from
// within a worker goroutine processing a different job (that is how
// newly-discovered successor states get scheduled).
func (p *Pool) Enqueue(index *LazyIndex, state fsm.StateId) {
	p.queue.Add(Job{Index: index, State: state})
}

// Run launches the worker goroutines. It blocks until ctx is cancelled,
// then drains and shuts down the queue before returning.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			p.workerLoop(gctx)
			return nil
		})
	}

	<-ctx.Done()
	p.queue.ShutDown()

	return g.Wait()
}

// workerLoop pulls jobs until the queue shuts down. A job that panics
// during expansion is recovered: the panic is converted into a
// WorkerPanicError and latched onto the job's index via FailState, so
// one misbehaving state cannot poison the shared pool or other
// indices.
func (p *Pool) workerLoop(ctx context.Context) {
	logger := klog.FromContext(ctx)

	for {
		job, shutdown := p.queue.Get()
		if shutdown {
			return
		}

		p.runJob(ctx, logger, job)
		p.queue.Done(job)
		p.queue.Forget(job)
	}
}

func (p *Pool) runJob(ctx context.Context, logger klog.Logger, job Job) {
	start := time.Now()
	defer func() {
		metrics.ExpandLatency.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			metrics.WorkerPanics.Inc()
			logger.V(logging.DEBUG).Error(nil, "worker panic recovered", "state", job.State, "panic", r)
			job.Index.FailState(job.State, &WorkerPanicError{State: job.State, Value: r})
		}
	}()

	successors := job.Index.ProcessState(ctx, job.State)
	metrics.StatesExpanded.Inc()
	for _, s := range successors {
		p.Enqueue(job.Index, s)
	}
}

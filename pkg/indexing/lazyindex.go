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
	"sync"

	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/logging"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// Instruction is the return value of GetNextInstruction: either "write
// these terminal tokens" or "generate from this allowed set".
type Instruction struct {
	// Write is true when the caller should emit Tokens and stop.
	Write bool
	Tokens []TokenId
}

// LazyIndex is the per-pattern index: a map of StateId to
// TransitionRow that is filled in lazily by a WorkerPool, with readers
// blocking on the rows they need.
//
// A LazyIndex is constructed once per distinct (pattern, vocabulary)
// fingerprint and is safe to share across any number of goroutines; all
// exported methods may be called concurrently.
type LazyIndex struct {
	info     *fsm.Info
	expander *StateExpander
	eosID    uint32

	mu       sync.Mutex
	rows     map[fsm.StateId]TransitionRow
	finished map[fsm.StateId]struct{}
	pending  map[fsm.StateId]struct{}
	alive    *aliveSet
	stateAt  map[fsm.StateId]uint32 // dense position in alive, built once at construction

	waiters map[fsm.StateId]chan struct{}

	drainCursor []fsm.StateId // states finished since the last collectFinishedStates, in finish order

	done     bool
	doneCh   chan struct{}
	err      error
}

// NewLazyIndex builds an index over info and vocab, with the initial
// state already marked pending. Callers (typically the package's
// construction entry point) are expected to hand InitialJob() to a
// WorkerPool as the first job for this index.
func NewLazyIndex(info *fsm.Info, vocab *vocabulary.Vocabulary) *LazyIndex {
	states := info.SortedStates()

	stateAt := make(map[fsm.StateId]uint32, len(states))
	for i, s := range states {
		stateAt[s] = uint32(i)
	}

	idx := &LazyIndex{
		info:     info,
		expander: NewStateExpander(info, vocab),
		eosID:    vocab.EOSTokenID(),
		rows:     make(map[fsm.StateId]TransitionRow),
		finished: make(map[fsm.StateId]struct{}),
		pending:  make(map[fsm.StateId]struct{}),
		alive:    newAliveSet(len(states)),
		stateAt:  stateAt,
		waiters:  make(map[fsm.StateId]chan struct{}),
		doneCh:   make(chan struct{}),
	}

	// Finals never get a job: mark them alive-removed up front so the
	// discovery rule's "not already discovered" check treats them as
	// already accounted for without ever enqueueing them.
	for final := range info.Finals {
		idx.markDiscovered(final)
	}

	idx.markDiscovered(info.Initial)
	idx.pending[info.Initial] = struct{}{}

	return idx
}

// InitialJob returns the first job a WorkerPool must run for this
// index: expanding the initial state.
func (idx *LazyIndex) InitialJob() fsm.StateId {
	return idx.info.Initial
}

// markDiscovered removes state from the undiscovered set. Must be
// called with mu held.
func (idx *LazyIndex) markDiscovered(state fsm.StateId) {
	if pos, ok := idx.stateAt[state]; ok {
		idx.alive.Remove(pos)
	}
}

// isUndiscovered reports whether state has never been enqueued,
// finished, or is a final (all of which remove it from alive). Must be
// called with mu held.
func (idx *LazyIndex) isUndiscovered(state fsm.StateId) bool {
	pos, ok := idx.stateAt[state]
	if !ok {
		return false
	}
	return idx.alive.Contains(pos)
}

// ProcessState expands state and publishes its row, returning the
// newly-discovered successor states a WorkerPool must schedule next.
// This is the single entry point a pool worker calls per job.
func (idx *LazyIndex) ProcessState(ctx context.Context, state fsm.StateId) []fsm.StateId {
	row, successors := idx.expander.Expand(ctx, state)
	return idx.PublishRow(ctx, state, row, successors)
}

// PublishRow is called by a WorkerPool worker after StateExpander
// produces row for state. It records the row, marks state finished,
// enqueues newly-discovered successors (returned to the caller so the
// pool can schedule them), wakes waiters on state, and — if this was
// the last pending state with no new discoveries — marks the index
// done.
func (idx *LazyIndex) PublishRow(ctx context.Context, state fsm.StateId, row TransitionRow, successors []fsm.StateId) []fsm.StateId {
	idx.mu.Lock()

	idx.rows[state] = row
	idx.finished[state] = struct{}{}
	delete(idx.pending, state)
	idx.drainCursor = append(idx.drainCursor, state)

	var toEnqueue []fsm.StateId
	for _, s := range successors {
		if _, isFinal := idx.info.Finals[s]; isFinal {
			continue
		}
		if !idx.isUndiscovered(s) {
			continue
		}
		idx.markDiscovered(s)
		idx.pending[s] = struct{}{}
		toEnqueue = append(toEnqueue, s)
	}

	idx.wakeLocked(state)

	if len(idx.pending) == 0 && len(toEnqueue) == 0 && !idx.done {
		idx.done = true
		close(idx.doneCh)
		idx.wakeAllLocked()
	}

	idx.mu.Unlock()

	klog.FromContext(ctx).V(logging.TRACE).Info("published row", "state", state, "newStates", len(toEnqueue))

	return toEnqueue
}

// FailState is invoked when a worker's job panics (WorkerPool recovery
// path). The state is marked finished with an empty row so waiters are
// released and the caller observes no allowed tokens rather than
// hanging forever; the index's err is latched for diagnostics.
func (idx *LazyIndex) FailState(state fsm.StateId, cause error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.err == nil {
		idx.err = cause
	}

	if _, already := idx.finished[state]; already {
		return
	}

	idx.rows[state] = TransitionRow{}
	idx.finished[state] = struct{}{}
	delete(idx.pending, state)
	idx.drainCursor = append(idx.drainCursor, state)
	idx.wakeLocked(state)

	if len(idx.pending) == 0 && !idx.done {
		idx.done = true
		close(idx.doneCh)
		idx.wakeAllLocked()
	}
}

// Err returns the first worker failure recorded against this index, if
// any. A non-nil Err does not mean the index is unusable: states that
// finished successfully remain valid.
func (idx *LazyIndex) Err() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.err
}

// wakeLocked closes and removes state's waiter channel, if one exists.
// Must be called with mu held.
func (idx *LazyIndex) wakeLocked(state fsm.StateId) {
	if ch, ok := idx.waiters[state]; ok {
		close(ch)
		delete(idx.waiters, state)
	}
}

// wakeAllLocked closes every remaining waiter channel. Called once, when
// the index transitions to done, to release waiters on states that
// never became reachable. Must be called with mu held.
func (idx *LazyIndex) wakeAllLocked() {
	for state, ch := range idx.waiters {
		close(ch)
		delete(idx.waiters, state)
	}
}

// AwaitState blocks until state is finished or the index is done,
// whichever happens first.
func (idx *LazyIndex) AwaitState(ctx context.Context, state fsm.StateId) {
	idx.mu.Lock()

	if _, ok := idx.finished[state]; ok || idx.done {
		idx.mu.Unlock()
		return
	}

	ch, ok := idx.waiters[state]
	if !ok {
		ch = make(chan struct{})
		idx.waiters[state] = ch
	}
	idx.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
	}
}

// AwaitFinished blocks until the index's done flag is set.
func (idx *LazyIndex) AwaitFinished(ctx context.Context) {
	select {
	case <-idx.doneCh:
	case <-ctx.Done():
	}
}

// IsFinalState reports whether state is one of the FSM's final states.
func (idx *LazyIndex) IsFinalState(state fsm.StateId) bool {
	return idx.info.IsFinal(state)
}

// IsComputingFinished reports whether the index has reached done.
func (idx *LazyIndex) IsComputingFinished() bool {
	select {
	case <-idx.doneCh:
		return true
	default:
		return false
	}
}

// row returns the finished row for state, and whether it was found.
func (idx *LazyIndex) row(state fsm.StateId) (TransitionRow, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	r, ok := idx.rows[state]
	return r, ok
}

// GetNextInstruction implements the C5 get_next_instruction contract.
// It blocks until state is finished unless state is already known
// final.
func (idx *LazyIndex) GetNextInstruction(ctx context.Context, state fsm.StateId) Instruction {
	if idx.IsFinalState(state) {
		return Instruction{Write: true, Tokens: []TokenId{TokenId(idx.eosID)}}
	}

	idx.AwaitState(ctx, state)

	row, ok := idx.row(state)
	if !ok {
		return Instruction{Write: true, Tokens: []TokenId{TokenId(idx.eosID)}}
	}

	allowed := make([]TokenId, 0, len(row))
	for id := range row {
		allowed = append(allowed, id)
	}

	if len(allowed) == 0 {
		return Instruction{Write: true, Tokens: []TokenId{TokenId(idx.eosID)}}
	}

	return Instruction{Write: false, Tokens: allowed}
}

// GetNextState implements the C5 get_next_state contract: it blocks
// until state is finished, then reports where token_id leads. A
// FinalStateMarker entry is surfaced as (0, false) unless token_id is
// the eos id, in which case it is accepted.
func (idx *LazyIndex) GetNextState(ctx context.Context, state fsm.StateId, tokenID TokenId) (fsm.StateId, bool) {
	idx.AwaitState(ctx, state)

	row, ok := idx.row(state)
	if !ok {
		return 0, false
	}

	next, present := row[tokenID]
	if !present {
		return 0, false
	}

	if next == FinalStateMarker {
		if uint32(tokenID) == idx.eosID {
			return FinalStateMarker, true
		}
		return 0, false
	}

	return next, true
}

// GetAllowedTokenIds implements the C5 get_allowed_token_ids contract:
// it blocks until state is finished and returns the row's keys.
func (idx *LazyIndex) GetAllowedTokenIds(ctx context.Context, state fsm.StateId) []TokenId {
	idx.AwaitState(ctx, state)

	row, ok := idx.row(state)
	if !ok {
		return nil
	}

	ids := make([]TokenId, 0, len(row))
	for id := range row {
		ids = append(ids, id)
	}
	return ids
}

// CollectFinishedStates returns the rows that have finished since the
// previous call (or since construction, on the first call), and
// advances the drain cursor. Non-blocking.
func (idx *LazyIndex) CollectFinishedStates() map[fsm.StateId]TransitionRow {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := make(map[fsm.StateId]TransitionRow, len(idx.drainCursor))
	for _, s := range idx.drainCursor {
		out[s] = idx.rows[s]
	}
	idx.drainCursor = idx.drainCursor[:0]

	return out
}

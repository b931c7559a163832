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

	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/logging"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
	"github.com/faster-outlines/faster-outlines-go/pkg/walker"
)

// StateExpander computes a single state's TransitionRow: for every
// walkable (non-special, non-eos) vocabulary entry, it walks the token's
// runes from state through the FSM and records where each of the
// entry's ids lands. Tokens that walk off the FSM (TokenWalker rejects
// them) are simply absent from the row.
//
// A StateExpander holds no per-call mutable state; Expand is safe to
// invoke concurrently from multiple WorkerPool goroutines as long as
// they operate on different states, which is the only way the pool
// ever uses it.
type StateExpander struct {
	info  *fsm.Info
	vocab *vocabulary.Vocabulary
	eosID uint32
}

// NewStateExpander builds a StateExpander over a fixed FsmInfo and
// Vocabulary pair. Both must outlive the expander.
func NewStateExpander(info *fsm.Info, vocab *vocabulary.Vocabulary) *StateExpander {
	return &StateExpander{
		info:  info,
		vocab: vocab,
		eosID: vocab.EOSTokenID(),
	}
}

// Expand walks every walkable vocabulary entry from state and returns
// the resulting TransitionRow, along with the set of destination states
// newly reachable from it (excluding state itself and states that are
// already final, since LazyIndex never needs to expand a final state
// further).
func (e *StateExpander) Expand(ctx context.Context, state fsm.StateId) (TransitionRow, []fsm.StateId) {
	row := make(TransitionRow)
	discovered := make(map[fsm.StateId]struct{})

	for _, entry := range e.vocab.WalkableEntries() {
		result, ok := walker.Walk(e.info, state, entry.Token)
		if !ok {
			continue
		}

		dest := result.State
		if result.IsFinal {
			dest = FinalStateMarker
		}

		for _, id := range entry.IDs {
			row[TokenId(id)] = dest
		}

		if !result.IsFinal && result.State != state {
			discovered[result.State] = struct{}{}
		}
	}

	next := make([]fsm.StateId, 0, len(discovered))
	for s := range discovered {
		next = append(next, s)
	}

	klog.FromContext(ctx).V(logging.TRACE).Info("expanded state", "state", state, "rowSize", len(row), "newStates", len(next))

	return row, next
}

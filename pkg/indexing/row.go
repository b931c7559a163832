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

import "github.com/faster-outlines/faster-outlines-go/pkg/fsm"

// FinalStateMarker is the sentinel row value meaning "this token led to
// a final DFA state, and thus completes the pattern." Fixed at -2 and
// never derived from Finals membership at read time, so a row can be
// replayed without access to the originating FsmInfo.
const FinalStateMarker fsm.StateId = -2

// RejectState is the conventional "no transition" value; it is never
// actually stored in a TransitionRow (rows are sparse — a missing key
// means reject), but some external codecs may want an explicit sentinel
// for it, so it's named here for clarity.
const RejectState fsm.StateId = -1

// TokenId is a vocabulary token's numeric id.
type TokenId uint32

// TransitionRow is the complete token -> next-state mapping for one DFA
// state. Only tokens that don't immediately reject appear.
type TransitionRow map[TokenId]fsm.StateId

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
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// Error kinds surfaced to callers of this package. A cache miss is
// handled internally by pkg/cache and never surfaces as an error here.
var (
	// ErrInvalidVocabulary is returned when a Vocabulary is empty or has
	// mismatched arities (an id reused across two non-special entries,
	// or an id colliding with the eos token).
	ErrInvalidVocabulary = vocabulary.ErrInvalidVocabulary

	// ErrSerializationFailure is returned when a Vocabulary blob cannot
	// be decoded.
	ErrSerializationFailure = vocabulary.ErrSerializationFailure

	// ErrUnknownState is returned by NewFsmInfo when Initial, a member
	// of Finals, or either side of a transition names a StateId absent
	// from the FsmInfo's declared state set. It is a construction-time
	// error; once an FsmInfo is built, every StateId the rest of this
	// module hands back is known-valid by construction, and a state
	// that is merely unreachable (never pointed at by any row) is not
	// an error — callers awaiting it unblock once the index finishes
	// (see LazyIndex.AwaitState).
	ErrUnknownState = fsm.ErrUnknownState
)

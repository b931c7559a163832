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
	"fmt"

	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
)

// WorkerPanicError wraps a recovered panic from a WorkerPool job. It is
// latched on the affected LazyIndex (see LazyIndex.Err) rather than
// propagated to other jobs or indices sharing the pool.
type WorkerPanicError struct {
	State fsm.StateId
	Value interface{}
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("indexing: worker panicked expanding state %d: %v", e.State, e.Value)
}

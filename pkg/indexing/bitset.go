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

// aliveSet is a fixed-capacity sparse set over a dense integer universe
// (here, the dense positions LazyIndex assigns each StateId from
// FsmInfo.SortedStates() at construction). It gives O(1) membership testing and
// removal, used by LazyIndex to track which states are still "alive" as
// undiscovered (neither pending nor finished nor final) without paying
// for Go map hashing on every discovery check, which matters since
// LazyIndex runs this check on the hot path of every published row.
type aliveSet struct {
	sparse []uint32 // index -> position in dense, only valid if dense[sparse[i]] == i
	dense  []uint32 // the live indices, compacted
	size   int
}

// newAliveSet returns a set initially containing every index in
// [0, capacity).
func newAliveSet(capacity int) *aliveSet {
	s := &aliveSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, capacity),
		size:   capacity,
	}
	for i := range s.dense {
		s.dense[i] = uint32(i)
		s.sparse[i] = uint32(i)
	}
	return s
}

// Contains reports whether index is still alive.
func (s *aliveSet) Contains(index uint32) bool {
	if int(index) >= len(s.sparse) {
		return false
	}
	pos := s.sparse[index]
	return int(pos) < s.size && s.dense[pos] == index
}

// Remove marks index as no longer alive (swap-with-last, shrink).
// A no-op if index was already removed.
func (s *aliveSet) Remove(index uint32) {
	if !s.Contains(index) {
		return
	}

	pos := s.sparse[index]
	last := s.size - 1

	lastVal := s.dense[last]
	s.dense[pos] = lastVal
	s.sparse[lastVal] = pos

	s.size = last
}

// Len returns the number of indices still alive.
func (s *aliveSet) Len() int {
	return s.size
}

// Values returns the currently-alive indices. The returned slice is only
// valid until the next Remove call.
func (s *aliveSet) Values() []uint32 {
	return s.dense[:s.size]
}

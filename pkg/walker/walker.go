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

// Package walker walks one token string through a compiled FSM from a
// given start state.
package walker

import "github.com/faster-outlines/faster-outlines-go/pkg/fsm"

// Result is what Walk returns on acceptance: the state the walk landed
// on, and whether that state is a final (accepting) state.
type Result struct {
	State   fsm.StateId
	IsFinal bool
}

// Walk advances through info starting at start, one Unicode scalar value
// of token at a time. It returns (Result, true) if every character had a
// transition; (Result{}, false) if the walk was rejected partway
// through.
//
// Walk never mutates info and never caches state across calls — each
// call is an independent replay of the same token against the same
// start state, so callers can run any number of them concurrently
// without coordination.
func Walk(info *fsm.Info, start fsm.StateId, token string) (Result, bool) {
	current := start

	for _, r := range token {
		symbol := info.Symbol(r)

		next, ok := info.Next(current, symbol)
		if !ok {
			return Result{}, false
		}

		current = next
	}

	return Result{State: current, IsFinal: info.IsFinal(current)}, true
}

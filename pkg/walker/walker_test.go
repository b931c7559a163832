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

package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
	"github.com/faster-outlines/faster-outlines-go/pkg/walker"
)

// patternA matches exactly the one-character string "a".
func patternA(t *testing.T) *fsm.Info {
	t.Helper()
	info, err := fsm.New(
		"a", 0,
		map[fsm.StateId]struct{}{1: {}},
		map[fsm.TransitionKey]fsm.StateId{{State: 0, Symbol: 1}: 1},
		map[rune]fsm.Symbol{'a': 1},
		0,
		[]fsm.StateId{0, 1},
	)
	require.NoError(t, err)
	return info
}

func TestWalkAccepts(t *testing.T) {
	info := patternA(t)
	res, ok := walker.Walk(info, info.Initial, "a")
	require.True(t, ok)
	assert.Equal(t, fsm.StateId(1), res.State)
	assert.True(t, res.IsFinal)
}

func TestWalkRejectsUnknownSymbol(t *testing.T) {
	info := patternA(t)
	_, ok := walker.Walk(info, info.Initial, "b")
	assert.False(t, ok)
}

func TestWalkEmptyTokenReturnsStart(t *testing.T) {
	info := patternA(t)
	res, ok := walker.Walk(info, info.Initial, "")
	require.True(t, ok)
	assert.Equal(t, info.Initial, res.State)
	assert.False(t, res.IsFinal)
}

func TestWalkMultiByteRunes(t *testing.T) {
	// Pattern that accepts a single "é" (one rune, two UTF-8 bytes).
	info, err := fsm.New(
		"é", 0,
		map[fsm.StateId]struct{}{1: {}},
		map[fsm.TransitionKey]fsm.StateId{{State: 0, Symbol: 1}: 1},
		map[rune]fsm.Symbol{'é': 1},
		0,
		[]fsm.StateId{0, 1},
	)
	require.NoError(t, err)

	res, ok := walker.Walk(info, info.Initial, "é")
	require.True(t, ok)
	assert.True(t, res.IsFinal)
}

func TestWalkNeverAdvancesPastRejection(t *testing.T) {
	info := patternA(t)
	// "ab": 'a' transitions to final state 1, 'b' has no transition from
	// state 1, so the whole token is rejected.
	_, ok := walker.Walk(info, info.Initial, "ab")
	assert.False(t, ok)
}

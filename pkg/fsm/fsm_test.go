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

package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
)

func simplePatternA(t *testing.T) *fsm.Info {
	t.Helper()

	info, err := fsm.New(
		"a",
		0,
		map[fsm.StateId]struct{}{1: {}},
		map[fsm.TransitionKey]fsm.StateId{
			{State: 0, Symbol: 1}: 1,
		},
		map[rune]fsm.Symbol{'a': 1},
		0,
		[]fsm.StateId{0, 1},
	)
	require.NoError(t, err)
	return info
}

func TestNewValidatesInitial(t *testing.T) {
	_, err := fsm.New("a", 5, nil, nil, nil, 0, []fsm.StateId{0, 1})
	assert.ErrorIs(t, err, fsm.ErrUnknownState)
}

func TestNewValidatesFinals(t *testing.T) {
	_, err := fsm.New("a", 0, map[fsm.StateId]struct{}{9: {}}, nil, nil, 0, []fsm.StateId{0, 1})
	assert.ErrorIs(t, err, fsm.ErrUnknownState)
}

func TestNewValidatesTransitions(t *testing.T) {
	_, err := fsm.New("a", 0, nil, map[fsm.TransitionKey]fsm.StateId{
		{State: 0, Symbol: 1}: 42,
	}, nil, 0, []fsm.StateId{0, 1})
	assert.ErrorIs(t, err, fsm.ErrUnknownState)
}

func TestIsFinal(t *testing.T) {
	info := simplePatternA(t)
	assert.False(t, info.IsFinal(0))
	assert.True(t, info.IsFinal(1))
}

func TestSymbolFallsBackToWildcard(t *testing.T) {
	info := simplePatternA(t)
	assert.Equal(t, fsm.Symbol(1), info.Symbol('a'))
	assert.Equal(t, fsm.Symbol(0), info.Symbol('z'))
}

func TestNext(t *testing.T) {
	info := simplePatternA(t)
	next, ok := info.Next(0, 1)
	assert.True(t, ok)
	assert.Equal(t, fsm.StateId(1), next)

	_, ok = info.Next(1, 1)
	assert.False(t, ok)
}

func TestSortedStates(t *testing.T) {
	info, err := fsm.New("a", 2, map[fsm.StateId]struct{}{}, nil, nil, 0,
		[]fsm.StateId{5, 2, 9})
	require.NoError(t, err)
	assert.Equal(t, []fsm.StateId{2, 5, 9}, info.SortedStates())
}

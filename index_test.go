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

package outlines_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	outlines "github.com/faster-outlines/faster-outlines-go"
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
)

// s1Info builds a minimal single-transition fixture: pattern "a",
// states 0 (initial), 1 (final).
func s1Info(t *testing.T) *outlines.FsmInfo {
	t.Helper()

	info, err := outlines.NewFsmInfo(
		"a",
		0,
		map[outlines.StateId]struct{}{1: {}},
		map[fsm.TransitionKey]outlines.StateId{
			{State: 0, Symbol: 1}: 1,
		},
		map[rune]fsm.Symbol{'a': 1},
		0,
		[]outlines.StateId{0, 1},
	)
	require.NoError(t, err)
	return info
}

// TestS1TrivialAccept exercises the full construction path end to end:
// pattern "a", vocab {"a"->[10], "b"->[11]}, eos=0.
func TestS1TrivialAccept(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	engine, err := outlines.New(ctx, outlines.WithWorkerCount(2))
	require.NoError(t, err)
	defer func() { _ = engine.Shutdown() }()

	vocab, err := outlines.NewVocabulary(map[string][]uint32{
		"a": {10},
		"b": {11},
	}, 0, sets.New[string]())
	require.NoError(t, err)

	idx, err := engine.Index(s1Info(t), vocab)
	require.NoError(t, err)

	idx.AwaitFinished(ctx)
	assert.True(t, idx.IsComputingFinished())

	instr := idx.GetNextInstruction(ctx, 0)
	assert.False(t, instr.Write)
	assert.ElementsMatch(t, []outlines.TokenId{10}, instr.Tokens)

	finalInstr := idx.GetNextInstruction(ctx, 1)
	assert.True(t, finalInstr.Write)
	assert.Equal(t, []outlines.TokenId{0}, finalInstr.Tokens)
}

// TestS2Alternation exercises the pattern "a|bc" fixture, checking that
// two independent calls for the same fingerprint share one LazyIndex.
func TestS2Alternation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	engine, err := outlines.New(ctx)
	require.NoError(t, err)
	defer func() { _ = engine.Shutdown() }()

	info, err := outlines.NewFsmInfo(
		"a|bc",
		0,
		map[outlines.StateId]struct{}{2: {}},
		map[fsm.TransitionKey]outlines.StateId{
			{State: 0, Symbol: 1}: 2,
			{State: 0, Symbol: 2}: 1,
			{State: 1, Symbol: 3}: 2,
		},
		map[rune]fsm.Symbol{'a': 1, 'b': 2, 'c': 3},
		0,
		[]outlines.StateId{0, 1, 2},
	)
	require.NoError(t, err)

	vocab, err := outlines.NewVocabulary(map[string][]uint32{
		"a":  {1},
		"b":  {2},
		"c":  {3},
		"bc": {4},
	}, 0, sets.New[string]())
	require.NoError(t, err)

	idx1, err := engine.Index(info, vocab)
	require.NoError(t, err)
	idx2, err := engine.Index(info, vocab)
	require.NoError(t, err)
	assert.Same(t, idx1, idx2)

	idx1.AwaitFinished(ctx)

	allowed := idx1.GetAllowedTokenIds(ctx, 0)
	assert.ElementsMatch(t, []outlines.TokenId{1, 2, 4}, allowed)

	next, ok := idx1.GetNextState(ctx, 0, 2)
	assert.True(t, ok)
	assert.Equal(t, outlines.StateId(1), next)
}

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

// Command fo-bench exercises the library end to end: it builds a small
// hand-rolled FsmInfo for the pattern "a|bc" (standing in for the
// external regex-to-FSM compiler this module does not include) plus a
// toy vocabulary, constructs an Engine, and walks the resulting
// LazyIndex the way a constrained decoder would: one
// get_next_instruction/get_next_state call per generated token.
package main

import (
	"context"
	"os"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	outlines "github.com/faster-outlines/faster-outlines-go"
	"github.com/faster-outlines/faster-outlines-go/pkg/fsm"
)

// buildAlternationFSM hand-builds the DFA for "a|bc": state 0 is
// initial, 1 and 3 are final (after "a" and after "bc"), 2 is the
// intermediate state after "b".
func buildAlternationFSM() (*outlines.FsmInfo, error) {
	const (
		sInitial fsm.StateId = 0
		sFinalA  fsm.StateId = 1
		sAfterB  fsm.StateId = 2
		sFinalBC fsm.StateId = 3
	)
	const (
		symA fsm.Symbol = 1
		symB fsm.Symbol = 2
		symC fsm.Symbol = 3
	)

	transitions := map[fsm.TransitionKey]fsm.StateId{
		{State: sInitial, Symbol: symA}: sFinalA,
		{State: sInitial, Symbol: symB}: sAfterB,
		{State: sAfterB, Symbol: symC}:  sFinalBC,
	}

	alphabet := map[rune]fsm.Symbol{'a': symA, 'b': symB, 'c': symC}

	return outlines.NewFsmInfo(
		"a|bc",
		sInitial,
		map[fsm.StateId]struct{}{sFinalA: {}, sFinalBC: {}},
		transitions,
		alphabet,
		0,
		[]fsm.StateId{sInitial, sFinalA, sAfterB, sFinalBC},
	)
}

func buildVocabulary() (*outlines.Vocabulary, error) {
	tokens := map[string][]uint32{
		"a":     {1},
		"b":     {2},
		"c":     {3},
		"bc":    {4},
		"<eos>": {0},
		"<pad>": {5},
	}
	return outlines.NewVocabulary(tokens, 0, sets.New("<eos>", "<pad>"))
}

func run(ctx context.Context) error {
	logger := klog.FromContext(ctx)

	info, err := buildAlternationFSM()
	if err != nil {
		return err
	}

	vocab, err := buildVocabulary()
	if err != nil {
		return err
	}

	engine, err := outlines.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Shutdown(); err != nil {
			logger.Error(err, "engine shutdown reported an error")
		}
	}()

	logger.Info("engine started", "workers", engine.WorkerCount())

	index, err := engine.Index(info, vocab)
	if err != nil {
		return err
	}

	index.AwaitFinished(ctx)

	state := info.Initial
	for {
		instr := index.GetNextInstruction(ctx, state)
		logger.Info("decoder step", "state", state, "instruction", instr)

		if instr.Write {
			break
		}

		// A real decoder would sample among instr.Tokens using the
		// LLM's logits; here we always take the first allowed token.
		token := instr.Tokens[0]
		// Every token in instr.Tokens has a row entry, so a false result
		// here means the token reached a final state (FinalStateMarker).
		next, ok := index.GetNextState(ctx, state, token)
		if !ok {
			logger.Info("token completes the pattern", "state", state, "token", token)
			break
		}
		state = next
	}

	return nil
}

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		klog.FromContext(ctx).Error(err, "fo-bench failed")
		os.Exit(1)
	}
}

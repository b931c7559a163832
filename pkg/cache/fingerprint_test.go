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

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faster-outlines/faster-outlines-go/pkg/cache"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

func mustVocab(t *testing.T, tokens map[string][]uint32, eos uint32) *vocabulary.Vocabulary {
	t.Helper()
	v, err := vocabulary.NewVocabulary(tokens, eos, sets.New[string]())
	require.NoError(t, err)
	return v
}

func TestFingerprintStableAcrossCalls(t *testing.T) {
	vocab := mustVocab(t, map[string][]uint32{"a": {1}, "b": {2}}, 0)

	f1, err := cache.Fingerprint("a|b", vocab)
	require.NoError(t, err)
	f2, err := cache.Fingerprint("a|b", vocab)
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
}

func TestFingerprintDiffersOnPatternChange(t *testing.T) {
	vocab := mustVocab(t, map[string][]uint32{"a": {1}}, 0)

	f1, err := cache.Fingerprint("a", vocab)
	require.NoError(t, err)
	f2, err := cache.Fingerprint("a+", vocab)
	require.NoError(t, err)

	assert.NotEqual(t, f1, f2)
}

func TestFingerprintDiffersOnVocabChange(t *testing.T) {
	v1 := mustVocab(t, map[string][]uint32{"a": {1}}, 0)
	v2 := mustVocab(t, map[string][]uint32{"a": {2}}, 0)

	f1, err := cache.Fingerprint("a", v1)
	require.NoError(t, err)
	f2, err := cache.Fingerprint("a", v2)
	require.NoError(t, err)

	assert.NotEqual(t, f1, f2)
}

func TestFingerprintIndependentOfMapIterationOrder(t *testing.T) {
	v1 := mustVocab(t, map[string][]uint32{"a": {1}, "b": {2}, "c": {3}}, 0)
	v2 := mustVocab(t, map[string][]uint32{"c": {3}, "a": {1}, "b": {2}}, 0)

	f1, err := cache.Fingerprint("a|b|c", v1)
	require.NoError(t, err)
	f2, err := cache.Fingerprint("a|b|c", v2)
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
}

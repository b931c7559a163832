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

package vocabulary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

func TestNewVocabularyRejectsEmpty(t *testing.T) {
	_, err := vocabulary.NewVocabulary(nil, 0, nil)
	require.ErrorIs(t, err, vocabulary.ErrInvalidVocabulary)
}

func TestNewVocabularyRejectsDuplicateIDs(t *testing.T) {
	_, err := vocabulary.NewVocabulary(map[string][]uint32{
		"a": {1},
		"b": {1},
	}, 0, nil)
	require.ErrorIs(t, err, vocabulary.ErrInvalidVocabulary)
}

func TestNewVocabularyRejectsEOSCollision(t *testing.T) {
	_, err := vocabulary.NewVocabulary(map[string][]uint32{
		"a": {0},
	}, 0, nil)
	require.ErrorIs(t, err, vocabulary.ErrInvalidVocabulary)
}

func TestWalkableEntriesExcludesSpecialTokens(t *testing.T) {
	vocab, err := vocabulary.NewVocabulary(map[string][]uint32{
		"a":       {1},
		"b":       {2},
		"<|end|>": {3},
	}, 0, sets.New("<|end|>"))
	require.NoError(t, err)

	walkable := vocab.WalkableEntries()
	assert.Len(t, walkable, 2)
	for _, e := range walkable {
		assert.NotEqual(t, "<|end|>", e.Token)
	}
	assert.True(t, vocab.IsSpecial("<|end|>"))
	assert.False(t, vocab.IsSpecial("a"))
}

func TestVocabularySerializeRoundTrip(t *testing.T) {
	vocab, err := vocabulary.NewVocabulary(map[string][]uint32{
		"a":  {10, 20},
		"bc": {30},
	}, 0, sets.New("<eos>"))
	require.NoError(t, err)

	blob, err := vocab.Serialize()
	require.NoError(t, err)

	restored, err := vocabulary.DeserializeVocabulary(blob)
	require.NoError(t, err)

	assert.Equal(t, vocab.WalkableEntries(), restored.WalkableEntries())
	assert.Equal(t, vocab.EOSTokenID(), restored.EOSTokenID())
	assert.True(t, restored.IsSpecial("<eos>"))
}

func TestDeserializeVocabularyRejectsGarbage(t *testing.T) {
	_, err := vocabulary.DeserializeVocabulary([]byte{0xff, 0x00, 0x11})
	require.ErrorIs(t, err, vocabulary.ErrSerializationFailure)
}

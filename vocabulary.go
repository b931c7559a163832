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

// Package outlines is the root façade for building and querying a
// lazy token-transition index: it wires pkg/vocabulary, pkg/fsm,
// pkg/cache, and pkg/indexing together behind an Engine and a handful
// of constructors.
package outlines

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// Vocabulary is re-exported at the root for ergonomic construction; it
// is the same type pkg/vocabulary defines and operates on.
type Vocabulary = vocabulary.Vocabulary

// TokenEntry is re-exported alongside Vocabulary.
type TokenEntry = vocabulary.TokenEntry

// NewVocabulary builds a Vocabulary. See pkg/vocabulary.NewVocabulary.
func NewVocabulary(tokens map[string][]uint32, eosTokenID uint32, special sets.Set[string]) (*Vocabulary, error) {
	return vocabulary.NewVocabulary(tokens, eosTokenID, special)
}

// DeserializeVocabulary decodes a blob produced by Vocabulary.Serialize.
func DeserializeVocabulary(blob []byte) (*Vocabulary, error) {
	return vocabulary.DeserializeVocabulary(blob)
}

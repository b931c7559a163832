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

package vocabulary

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"k8s.io/apimachinery/pkg/util/sets"
)

// TokenEntry is one vocabulary entry: a token string and the (possibly
// several, for byte-level tokenizers that alias variants) numeric ids
// that decode to it.
type TokenEntry struct {
	Token string   `msgpack:"token"`
	IDs   []uint32 `msgpack:"ids"`
}

// Vocabulary is an ordered sequence of TokenEntry, plus the EOS id and
// the set of special-token strings excluded from walking.
//
// A Vocabulary is immutable after construction and is safe to share
// across goroutines without locking, the same way pkg/fsm.Info is.
type Vocabulary struct {
	entries      []TokenEntry
	entryIndexOf map[string]int
	special      sets.Set[string]
	eosTokenID   uint32
}

// wireVocabulary is the serializable shape of Vocabulary, used to
// encode it into an opaque byte blob and decode it back.
type wireVocabulary struct {
	Entries    []TokenEntry `msgpack:"entries"`
	Special    []string     `msgpack:"special"`
	EOSTokenID uint32       `msgpack:"eos"`
}

// NewVocabulary builds a Vocabulary from a token_string -> ids mapping.
// Entries are stored in lexicographic token order so that iteration (and
// therefore fingerprinting, see pkg/cache) is deterministic regardless of
// the caller's map iteration order.
//
// It returns InvalidVocabulary-wrapped errors (see errors.go) when the
// mapping is empty or when any id is reused across two non-special
// entries.
func NewVocabulary(tokens map[string][]uint32, eosTokenID uint32, special sets.Set[string]) (*Vocabulary, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: vocabulary has no entries", ErrInvalidVocabulary)
	}

	if special == nil {
		special = sets.New[string]()
	}

	tokenStrings := make([]string, 0, len(tokens))
	for tok := range tokens {
		tokenStrings = append(tokenStrings, tok)
	}
	sort.Strings(tokenStrings)

	entries := make([]TokenEntry, 0, len(tokenStrings))
	entryIndexOf := make(map[string]int, len(tokenStrings))
	seenIDs := make(map[uint32]string)

	for _, tok := range tokenStrings {
		ids := tokens[tok]
		entry := TokenEntry{Token: tok, IDs: append([]uint32(nil), ids...)}

		if !special.Has(tok) {
			for _, id := range entry.IDs {
				if id == eosTokenID {
					return nil, fmt.Errorf("%w: token %q claims the eos id %d", ErrInvalidVocabulary, tok, eosTokenID)
				}
				if owner, ok := seenIDs[id]; ok {
					return nil, fmt.Errorf("%w: id %d is shared by %q and %q", ErrInvalidVocabulary, id, owner, tok)
				}
				seenIDs[id] = tok
			}
		}

		entryIndexOf[tok] = len(entries)
		entries = append(entries, entry)
	}

	return &Vocabulary{
		entries:      entries,
		entryIndexOf: entryIndexOf,
		special:      special,
		eosTokenID:   eosTokenID,
	}, nil
}

// Clone returns a cheap, shared-ownership handle to the same immutable
// vocabulary data. There is nothing to deep-copy since Vocabulary is
// never mutated after NewVocabulary returns.
func (v *Vocabulary) Clone() *Vocabulary {
	return v
}

// EOSTokenID returns the configured end-of-sequence token id.
func (v *Vocabulary) EOSTokenID() uint32 {
	return v.eosTokenID
}

// Len returns the total number of vocabulary entries, including special
// tokens.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// IsSpecial reports whether token is excluded from walking.
func (v *Vocabulary) IsSpecial(token string) bool {
	return v.special.Has(token)
}

// WalkableEntries returns the vocabulary entries that a state expansion
// should walk: everything except special tokens. Callers must not mutate
// the returned slice or its IDs slices.
func (v *Vocabulary) WalkableEntries() []TokenEntry {
	out := make([]TokenEntry, 0, len(v.entries))
	for _, e := range v.entries {
		if v.special.Has(e.Token) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AllEntries returns every vocabulary entry, including special tokens,
// in the deterministic lexicographic-by-token order established at
// construction. Callers must not mutate the returned slice or its IDs
// slices. Used by pkg/cache to fold the whole vocabulary into a
// FingerprintHash.
func (v *Vocabulary) AllEntries() []TokenEntry {
	return v.entries
}

// SpecialTokens returns the excluded-from-walking token strings, in no
// particular order.
func (v *Vocabulary) SpecialTokens() []string {
	return v.special.UnsortedList()
}

// Serialize encodes the vocabulary into an opaque byte blob suitable for
// caching or shipping across a process boundary.
func (v *Vocabulary) Serialize() ([]byte, error) {
	special := v.special.UnsortedList()
	sort.Strings(special)

	blob, err := msgpack.Marshal(wireVocabulary{
		Entries:    v.entries,
		Special:    special,
		EOSTokenID: v.eosTokenID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}

	return blob, nil
}

// DeserializeVocabulary decodes a blob produced by Vocabulary.Serialize.
func DeserializeVocabulary(blob []byte) (*Vocabulary, error) {
	var wire wireVocabulary
	if err := msgpack.Unmarshal(blob, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}

	entryIndexOf := make(map[string]int, len(wire.Entries))
	for i, e := range wire.Entries {
		entryIndexOf[e.Token] = i
	}

	return &Vocabulary{
		entries:      wire.Entries,
		entryIndexOf: entryIndexOf,
		special:      sets.New(wire.Special...),
		eosTokenID:   wire.EOSTokenID,
	}, nil
}

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

package cache

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// fingerprintPayload is the canonical shape hashed into a Fingerprint.
// It is encoded as a CBOR map keyed by the cbor tags, and the canonical
// encoding mode sorts those keys, so field declaration order does not
// affect the bytes. Slice order is kept as given, which is why Special
// is sorted and Entries come in the vocabulary's lexicographic order.
type fingerprintPayload struct {
	Pattern    string                `cbor:"pattern"`
	EOSTokenID uint32                `cbor:"eos"`
	Special    []string              `cbor:"special"`
	Entries    []vocabulary.TokenEntry `cbor:"entries"`
}

// Fingerprint computes a stable 64-bit identity for (pattern, vocab):
// stable across process runs of the same binary, and differing
// whenever the pattern text or any (token, id-list) pair differs. The
// eos id and special-token set are folded in.
func Fingerprint(pattern string, vocab *vocabulary.Vocabulary) (uint64, error) {
	special := vocab.SpecialTokens()
	sort.Strings(special)

	payload := fingerprintPayload{
		Pattern:    pattern,
		EOSTokenID: vocab.EOSTokenID(),
		Special:    special,
		Entries:    vocab.AllEntries(),
	}

	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return 0, fmt.Errorf("cache: failed to build canonical CBOR encoder: %w", err)
	}

	b, err := encMode.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("cache: failed to marshal fingerprint payload: %w", err)
	}

	return xxhash.Sum64(b), nil
}

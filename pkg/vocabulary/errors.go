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

import "errors"

var (
	// ErrInvalidVocabulary is returned when a Vocabulary is empty or has
	// mismatched arities (an id reused across two non-special entries,
	// or an id colliding with the eos token).
	ErrInvalidVocabulary = errors.New("vocabulary: invalid vocabulary")

	// ErrSerializationFailure is returned when a Vocabulary blob cannot
	// be decoded.
	ErrSerializationFailure = errors.New("vocabulary: serialization failure")
)

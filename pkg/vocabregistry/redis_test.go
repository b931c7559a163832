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

package vocabregistry_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faster-outlines/faster-outlines-go/pkg/vocabregistry"
	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

func newTestRegistry(t *testing.T) *vocabregistry.Registry {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	reg, err := vocabregistry.New(context.Background(), &vocabregistry.Config{Address: server.Addr()})
	require.NoError(t, err)
	return reg
}

func TestRegistryFetchMissReturnsFalse(t *testing.T) {
	reg := newTestRegistry(t)

	vocab, found, err := reg.Fetch(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, vocab)
}

func TestRegistryPublishThenFetchRoundTrips(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	vocab, err := vocabulary.NewVocabulary(map[string][]uint32{
		"a": {10}, "b": {11}, "<eos>": {0},
	}, 0, sets.New("<eos>"))
	require.NoError(t, err)

	require.NoError(t, reg.Publish(ctx, 42, vocab))

	fetched, found, err := reg.Fetch(ctx, 42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, vocab.AllEntries(), fetched.AllEntries())
	assert.Equal(t, vocab.EOSTokenID(), fetched.EOSTokenID())
}

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

// Package vocabregistry is an optional Redis-backed store letting
// multiple decoder processes that share a Redis instance publish and
// fetch a Vocabulary's serialized blob by fingerprint, so a fleet of
// replicas tokenizing against the same model doesn't each pay the
// vocabulary-construction cost independently. It does not share
// LazyIndex handles; those carry live goroutine state and are not
// serializable.
package vocabregistry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/vocabulary"
)

// Config holds the configuration for a Redis-backed Registry.
type Config struct {
	// Address is the Redis connection URL, e.g. "redis://127.0.0.1:6379".
	Address string `json:"address,omitempty"`
	// TTL is how long a published blob survives before Redis expires it.
	// Zero means no expiry.
	TTL time.Duration `json:"ttl,omitempty"`
}

// DefaultConfig returns the registry's default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address: "redis://127.0.0.1:6379",
		TTL:     24 * time.Hour,
	}
}

// Registry publishes and fetches serialized Vocabulary blobs keyed by
// fingerprint, shared across processes via Redis.
type Registry struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the Redis address in cfg. A nil cfg uses
// DefaultConfig.
func New(ctx context.Context, cfg *Config) (*Registry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	addr := cfg.Address
	if !strings.HasPrefix(addr, "redis://") &&
		!strings.HasPrefix(addr, "rediss://") &&
		!strings.HasPrefix(addr, "unix://") {
		addr = "redis://" + addr
	}

	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("vocabregistry: failed to parse address: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("vocabregistry: failed to connect to redis: %w", err)
	}

	return &Registry{client: client, ttl: cfg.TTL}, nil
}

func redisKey(fingerprint uint64) string {
	return "faster-outlines:vocab:" + strconv.FormatUint(fingerprint, 10)
}

// Publish serializes vocab and stores it under fingerprint, so other
// processes sharing this Redis instance can fetch it without rebuilding
// it from a raw tokenizer export.
func (r *Registry) Publish(ctx context.Context, fingerprint uint64, vocab *vocabulary.Vocabulary) error {
	blob, err := vocab.Serialize()
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, redisKey(fingerprint), blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("vocabregistry: failed to publish vocabulary: %w", err)
	}

	klog.FromContext(ctx).V(2).Info("published vocabulary", "fingerprint", fingerprint, "bytes", len(blob))
	return nil
}

// Fetch retrieves and deserializes the Vocabulary previously published
// under fingerprint. It returns (nil, false, nil) on a cache miss.
func (r *Registry) Fetch(ctx context.Context, fingerprint uint64) (*vocabulary.Vocabulary, bool, error) {
	blob, err := r.client.Get(ctx, redisKey(fingerprint)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("vocabregistry: failed to fetch vocabulary: %w", err)
	}

	vocab, err := vocabulary.DeserializeVocabulary(blob)
	if err != nil {
		return nil, false, err
	}

	return vocab, true, nil
}

// Close releases the underlying Redis connection.
func (r *Registry) Close() error {
	return r.client.Close()
}

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

// Package broadcast provides an optional ZMQ PUB/SUB channel
// announcing IndexCache admissions and evictions, so operators running
// several decoder replicas can observe cache churn cluster-wide
// without a shared metrics backend. Informational only — never
// required for correctness, and a Publisher that is never constructed
// costs nothing.
package broadcast

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	zmq "github.com/pebbe/zmq4"
	"github.com/vmihailenco/msgpack/v5"
	"k8s.io/klog/v2"

	"github.com/faster-outlines/faster-outlines-go/pkg/logging"
)

const (
	// AdmitEventTag tags a cache admission event.
	AdmitEventTag = "Admit"
	// EvictEventTag tags a cache eviction event.
	EvictEventTag = "Evict"
)

// event is the tagged payload published on the wire: a lifecycle tag
// plus the fingerprint it concerns.
type event struct {
	_           struct{} `msgpack:",array"`
	Tag         string
	Fingerprint uint64
}

// Config holds the configuration for a Publisher.
type Config struct {
	// Endpoint is the ZMQ PUB socket address to bind, e.g.
	// "tcp://*:5558".
	Endpoint string `json:"endpoint,omitempty"`
	// Topic is the prefix published on every message, letting
	// subscribers filter with SetSubscribe.
	Topic string `json:"topic,omitempty"`
}

// DefaultConfig returns the publisher's default configuration.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "tcp://*:5558",
		Topic:    "faster-outlines-cache",
	}
}

// Publisher announces IndexCache lifecycle events over a ZMQ PUB
// socket. It implements cache.Listener, so it can be registered
// directly via Cache.AddListener.
type Publisher struct {
	mu     sync.Mutex
	sock   *zmq.Socket
	topic  string
	seq    uint64
	logger klog.Logger
}

// New binds a ZMQ PUB socket at cfg.Endpoint. A nil cfg uses
// DefaultConfig.
func New(ctx context.Context, cfg *Config) (*Publisher, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("broadcast: failed to create pub socket: %w", err)
	}

	if err := sock.Bind(cfg.Endpoint); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("broadcast: failed to bind pub socket %q: %w", cfg.Endpoint, err)
	}

	return &Publisher{
		sock:   sock,
		topic:  cfg.Topic,
		logger: klog.FromContext(ctx).WithName("broadcast.Publisher"),
	}, nil
}

// OnAdmit publishes an admission event for fingerprint. Satisfies
// cache.Listener.
func (p *Publisher) OnAdmit(fingerprint uint64) {
	p.publish(AdmitEventTag, fingerprint)
}

// OnEvict publishes an eviction event for fingerprint. Satisfies
// cache.Listener.
func (p *Publisher) OnEvict(fingerprint uint64) {
	p.publish(EvictEventTag, fingerprint)
}

func (p *Publisher) publish(tag string, fingerprint uint64) {
	payload, err := msgpack.Marshal(event{Tag: tag, Fingerprint: fingerprint})
	if err != nil {
		p.logger.V(logging.DEBUG).Error(err, "failed to marshal broadcast event", "tag", tag)
		return
	}

	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, atomic.AddUint64(&p.seq, 1))

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.sock.SendMessage(p.topic, seqBytes, payload); err != nil {
		p.logger.V(logging.DEBUG).Error(err, "failed to publish broadcast event", "tag", tag, "fingerprint", fingerprint)
	}
}

// Close releases the underlying ZMQ socket.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sock.Close()
}

// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package testkit provides an in-memory etcd cluster for testing checks.
//
// Cluster implements client.Dialer. Every node shares one linearizable key
// space, like a healthy etcd cluster, and faults are injected per node:
// a node can refuse connections, fail a single operation, or return a
// corrupted value for a key. Lazy returns a dialer that, like clientv3,
// hands out sessions to down nodes whose calls then fail.
package testkit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/etcdcheck/client"
)

var (
	// ErrNodeDown is returned by operations against a node marked down.
	ErrNodeDown = errors.New("node is down")
	// ErrLeaseNotFound is returned when a lease was never granted or is revoked.
	ErrLeaseNotFound = errors.New("etcdserver: requested lease not found")
)

// Operation names a key-value call that can be failed.
type Operation string

const (
	// OpPut is Session.Put
	OpPut Operation = "put"
	// OpGet is Session.Get
	OpGet Operation = "get"
	// OpKeys is Session.Keys
	OpKeys Operation = "keys"
	// OpDelete is Session.Delete
	OpDelete Operation = "delete"
	// OpGrant is Session.Grant
	OpGrant Operation = "grant"
	// OpRevoke is Session.Revoke
	OpRevoke Operation = "revoke"
)

type node struct {
	down      bool
	failures  map[Operation]error
	corrupted map[string]string
}

// Cluster is an in-memory, fault-injectable etcd cluster.
type Cluster struct {
	mu    sync.Mutex
	data  map[string]string
	nodes map[string]*node

	// leases holds the live leases and attached maps a key to its lease
	leases    goset.Set[client.LeaseID]
	attached  map[string]client.LeaseID
	nextLease client.LeaseID

	dials   *atomic.Int64
	puts    *atomic.Int64
	gets    *atomic.Int64
	deletes *atomic.Int64
	open    *atomic.Int64
}

var _ client.Dialer = (*Cluster)(nil)

// NewCluster creates a healthy cluster made of the given endpoints.
func NewCluster(endpoints ...string) *Cluster {
	nodes := make(map[string]*node, len(endpoints))
	for _, endpoint := range endpoints {
		nodes[endpoint] = newNode()
	}

	return &Cluster{
		data:     make(map[string]string),
		nodes:    nodes,
		leases:   goset.NewThreadUnsafeSet[client.LeaseID](),
		attached: make(map[string]client.LeaseID),
		dials:   atomic.NewInt64(0),
		puts:    atomic.NewInt64(0),
		gets:    atomic.NewInt64(0),
		deletes: atomic.NewInt64(0),
		open:    atomic.NewInt64(0),
	}
}

func newNode() *node {
	return &node{
		failures:  make(map[Operation]error),
		corrupted: make(map[string]string),
	}
}

// Dial implements client.Dialer. Only the first endpoint is used.
func (c *Cluster) Dial(ctx context.Context, endpoints ...string) (client.Session, error) {
	return c.dial(ctx, false, endpoints)
}

// Lazy returns a dialer of the cluster that does not check the node on Dial.
func (c *Cluster) Lazy() client.Dialer {
	return lazyDialer{cluster: c}
}

type lazyDialer struct {
	cluster *Cluster
}

func (d lazyDialer) Dial(ctx context.Context, endpoints ...string) (client.Session, error) {
	return d.cluster.dial(ctx, true, endpoints)
}

func (c *Cluster) dial(ctx context.Context, lazy bool, endpoints []string) (client.Session, error) {
	if len(endpoints) == 0 {
		return nil, client.ErrNoEndpoints
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.dials.Inc()
	endpoint := endpoints[0]
	if err := c.reachable(endpoint); err != nil && (!lazy || !errors.Is(err, ErrNodeDown)) {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	c.open.Inc()
	return &session{cluster: c, endpoint: endpoint, closed: atomic.NewBool(false)}, nil
}

// Down makes the node refuse connections and fail every call.
func (c *Cluster) Down(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node(endpoint).down = true
}

// Fail makes the given operation fail with err on the node.
func (c *Cluster) Fail(endpoint string, op Operation, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node(endpoint).failures[op] = err
}

// Corrupt makes the node answer reads of key with observed instead of the stored value.
func (c *Cluster) Corrupt(endpoint, key, observed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node(endpoint).corrupted[key] = observed
}

// Heal removes every fault injected on the node.
func (c *Cluster) Heal(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[endpoint] = newNode()
}

// Seed stores key/value pairs without going through a node.
func (c *Cluster) Seed(kvs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range kvs {
		c.data[key] = value
	}
}

// Value returns the stored value of key.
func (c *Cluster) Value(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	return value, ok
}

// Leased returns the lease the key is attached to.
func (c *Cluster) Leased(key string) (client.LeaseID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lease, ok := c.attached[key]
	return lease, ok
}

// Dials returns the number of Dial calls, successful or not.
func (c *Cluster) Dials() int64 { return c.dials.Load() }

// Puts returns the number of successful puts.
func (c *Cluster) Puts() int64 { return c.puts.Load() }

// Gets returns the number of successful gets.
func (c *Cluster) Gets() int64 { return c.gets.Load() }

// Deletes returns the number of successful deletes.
func (c *Cluster) Deletes() int64 { return c.deletes.Load() }

// OpenSessions returns the number of sessions not yet closed.
func (c *Cluster) OpenSessions() int64 { return c.open.Load() }

// node must be called with the lock held. Unknown endpoints are added on the fly.
func (c *Cluster) node(endpoint string) *node {
	n, ok := c.nodes[endpoint]
	if !ok {
		n = newNode()
		c.nodes[endpoint] = n
	}
	return n
}

func (c *Cluster) reachable(endpoint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[endpoint]
	if !ok {
		return fmt.Errorf("unknown endpoint %s", endpoint)
	}
	if n.down {
		return ErrNodeDown
	}
	return nil
}

// check must be called with the lock held.
func (c *Cluster) check(endpoint string, op Operation) (*node, error) {
	n := c.node(endpoint)
	if n.down {
		return nil, ErrNodeDown
	}
	if err := n.failures[op]; err != nil {
		return nil, err
	}
	return n, nil
}

type session struct {
	cluster  *Cluster
	endpoint string
	closed   *atomic.Bool
}

var _ client.Session = (*session)(nil)

func (s *session) Put(ctx context.Context, key, value string) error {
	if err := s.usable(ctx); err != nil {
		return err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpPut); err != nil {
		return fmt.Errorf("failed to put key=%s: %w", key, err)
	}
	c.data[key] = value
	delete(c.attached, key)
	c.puts.Inc()
	return nil
}

func (s *session) PutWithLease(ctx context.Context, key, value string, lease client.LeaseID) error {
	if err := s.usable(ctx); err != nil {
		return err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpPut); err != nil {
		return fmt.Errorf("failed to put key=%s with lease=%x: %w", key, lease, err)
	}
	if !c.leases.Contains(lease) {
		return fmt.Errorf("failed to put key=%s with lease=%x: %w", key, lease, ErrLeaseNotFound)
	}
	c.data[key] = value
	c.attached[key] = lease
	c.puts.Inc()
	return nil
}

func (s *session) Grant(ctx context.Context, ttl int64) (client.LeaseID, error) {
	if err := s.usable(ctx); err != nil {
		return 0, err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpGrant); err != nil {
		return 0, fmt.Errorf("failed to grant lease ttl=%d: %w", ttl, err)
	}
	// leases never expire here, tests revoke them explicitly
	c.nextLease++
	c.leases.Add(c.nextLease)
	return c.nextLease, nil
}

func (s *session) Revoke(ctx context.Context, lease client.LeaseID) error {
	if err := s.usable(ctx); err != nil {
		return err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpRevoke); err != nil {
		return fmt.Errorf("failed to revoke lease=%x: %w", lease, err)
	}
	if !c.leases.Contains(lease) {
		return fmt.Errorf("failed to revoke lease=%x: %w", lease, ErrLeaseNotFound)
	}

	c.leases.Remove(lease)
	for key, attached := range c.attached {
		if attached == lease {
			delete(c.data, key)
			delete(c.attached, key)
		}
	}
	return nil
}

func (s *session) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.usable(ctx); err != nil {
		return "", false, err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.check(s.endpoint, OpGet)
	if err != nil {
		return "", false, fmt.Errorf("failed to get key=%s: %w", key, err)
	}

	c.gets.Inc()
	if observed, ok := n.corrupted[key]; ok {
		return observed, true, nil
	}
	value, ok := c.data[key]
	return value, ok, nil
}

func (s *session) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpKeys); err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix=%q: %w", prefix, err)
	}

	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	// etcd returns keys in byte order
	sort.Strings(keys)
	return keys, nil
}

func (s *session) Delete(ctx context.Context, key string) (int64, error) {
	if err := s.usable(ctx); err != nil {
		return 0, err
	}

	c := s.cluster
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.check(s.endpoint, OpDelete); err != nil {
		return 0, fmt.Errorf("failed to delete key=%s: %w", key, err)
	}

	if _, ok := c.data[key]; !ok {
		return 0, nil
	}
	delete(c.data, key)
	delete(c.attached, key)
	c.deletes.Inc()
	return 1, nil
}

func (s *session) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.cluster.open.Dec()
	}
	return nil
}

func (s *session) usable(ctx context.Context) error {
	if s.closed.Load() {
		return client.ErrSessionClosed
	}
	return ctx.Err()
}

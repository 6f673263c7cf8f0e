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

package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/tochemey/etcdcheck/log"
)

// EtcdDialer opens clientv3 sessions.
type EtcdDialer struct {
	dialTimeout    time.Duration
	requestTimeout time.Duration
	username       string
	password       string
	tls            *tls.Config
	lazy           bool
	logger         log.Logger
}

var _ Dialer = (*EtcdDialer)(nil)

// NewDialer creates an EtcdDialer with a DefaultDialTimeout and no request timeout.
func NewDialer(opts ...Option) *EtcdDialer {
	dialer := &EtcdDialer{
		dialTimeout: DefaultDialTimeout,
		logger:      log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(dialer)
	}
	return dialer
}

// ConnectsLazily reports whether Dial skips the Status check.
func (d *EtcdDialer) ConnectsLazily() bool {
	return d.lazy
}

// Dial implements Dialer.
// Unless the dialer connects lazily, the connection is checked with a Status call
// bounded by the dial timeout so that an unreachable node fails here instead of
// on the first key-value call.
func (d *EtcdDialer) Dial(ctx context.Context, endpoints ...string) (Session, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	config := &Config{
		Endpoints:      endpoints,
		DialTimeout:    d.dialTimeout,
		RequestTimeout: d.requestTimeout,
		Username:       d.username,
		Password:       d.password,
		TLS:            d.tls,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   config.Endpoints,
		DialTimeout: config.DialTimeout,
		TLS:         config.TLS,
		Username:    config.Username,
		Password:    config.Password,
		Context:     ctx,
		Logger:      log.ToZap(d.logger).Named("etcd-client"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	if d.lazy {
		d.logger.Debugf("created etcd client endpoints=%v", config.Endpoints)
		return newSession(client, config.RequestTimeout), nil
	}

	statusCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	if _, err := client.Status(statusCtx, config.Endpoints[0]); err != nil {
		if cerr := client.Close(); cerr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to close etcd client: %w", cerr))
		}
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	d.logger.Debugf("connected to etcd endpoints=%v", config.Endpoints)
	return newSession(client, config.RequestTimeout), nil
}

type etcdSession struct {
	mu             sync.Mutex
	client         *clientv3.Client
	requestTimeout time.Duration
}

var _ Session = (*etcdSession)(nil)

func newSession(client *clientv3.Client, requestTimeout time.Duration) *etcdSession {
	return &etcdSession{
		client:         client,
		requestTimeout: requestTimeout,
	}
}

// Put implements Session.
func (s *etcdSession) Put(ctx context.Context, key, value string) error {
	kv, err := s.kv()
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to put key=%s: %w", key, err)
	}
	return nil
}

// Get implements Session.
func (s *etcdSession) Get(ctx context.Context, key string) (string, bool, error) {
	kv, err := s.kv()
	if err != nil {
		return "", false, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := kv.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to get key=%s: %w", key, err)
	}

	if len(resp.Kvs) == 0 {
		return "", false, nil
	}
	return string(resp.Kvs[0].Value), true, nil
}

// Keys implements Session.
func (s *etcdSession) Keys(ctx context.Context, prefix string) ([]string, error) {
	kv, err := s.kv()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := kv.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix=%q: %w", prefix, err)
	}

	keys := make([]string, 0, len(resp.Kvs))
	for _, item := range resp.Kvs {
		keys = append(keys, string(item.Key))
	}
	return keys, nil
}

// Delete implements Session.
func (s *etcdSession) Delete(ctx context.Context, key string) (int64, error) {
	kv, err := s.kv()
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := kv.Delete(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete key=%s: %w", key, err)
	}
	return resp.Deleted, nil
}

// Grant implements Session.
func (s *etcdSession) Grant(ctx context.Context, ttl int64) (LeaseID, error) {
	lease, err := s.lease()
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := lease.Grant(ctx, ttl)
	if err != nil {
		return 0, fmt.Errorf("failed to grant lease ttl=%d: %w", ttl, err)
	}
	return LeaseID(resp.ID), nil
}

// PutWithLease implements Session.
func (s *etcdSession) PutWithLease(ctx context.Context, key, value string, lease LeaseID) error {
	kv, err := s.kv()
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := kv.Put(ctx, key, value, clientv3.WithLease(clientv3.LeaseID(lease))); err != nil {
		return fmt.Errorf("failed to put key=%s with lease=%x: %w", key, lease, err)
	}
	return nil
}

// Revoke implements Session.
func (s *etcdSession) Revoke(ctx context.Context, id LeaseID) error {
	lease, err := s.lease()
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := lease.Revoke(ctx, clientv3.LeaseID(id)); err != nil {
		return fmt.Errorf("failed to revoke lease=%x: %w", id, err)
	}
	return nil
}

// Close implements Session. Closing twice is a no-op.
func (s *etcdSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}

	err := s.client.Close()
	s.client = nil
	if err != nil {
		return fmt.Errorf("failed to close etcd client: %w", err)
	}
	return nil
}

func (s *etcdSession) kv() (clientv3.KV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, ErrSessionClosed
	}
	return s.client.KV, nil
}

func (s *etcdSession) lease() (clientv3.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, ErrSessionClosed
	}
	return s.client.Lease, nil
}

func (s *etcdSession) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

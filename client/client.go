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

// Package client opens short-lived sessions against etcd nodes.
//
// Every check in this module talks to one node at a time: it dials, runs a
// handful of key-value calls and closes the session before moving on. Dialer
// and Session describe exactly that surface so that checks can run against a
// real cluster or an in-memory one.
package client

import (
	"context"
)

// LeaseID identifies a lease granted by the cluster.
type LeaseID int64

// Dialer opens sessions against one or more etcd endpoints.
type Dialer interface {
	// Dial connects to the given endpoints. The returned Session must be closed by the caller.
	Dial(ctx context.Context, endpoints ...string) (Session, error)
}

// Session is a connected etcd key-value client.
type Session interface {
	// Put writes value under key.
	Put(ctx context.Context, key, value string) error
	// Get reads the value stored under key. found is false when the key does not exist.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Keys lists the keys starting with prefix. An empty prefix lists every key.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Delete removes key and returns the number of deleted keys.
	Delete(ctx context.Context, key string) (int64, error)
	// Grant creates a lease expiring after ttl seconds.
	Grant(ctx context.Context, ttl int64) (LeaseID, error)
	// PutWithLease writes value under key and attaches key to the lease.
	PutWithLease(ctx context.Context, key, value string, lease LeaseID) error
	// Revoke revokes the lease and deletes every key attached to it.
	Revoke(ctx context.Context, lease LeaseID) error
	// Close releases the underlying connection.
	Close() error
}

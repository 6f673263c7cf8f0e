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

package testkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/etcdcheck/client"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCluster(t *testing.T) {
	t.Run("With a healthy cluster", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379", "etcd1:2379")

		writer, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		require.NoError(t, writer.Put(ctx, "foo1", "bar1"))
		require.NoError(t, writer.Close())

		reader, err := cluster.Dial(ctx, "etcd1:2379")
		require.NoError(t, err)
		value, found, err := reader.Get(ctx, "foo1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "bar1", value)
		require.NoError(t, reader.Close())

		assert.EqualValues(t, 2, cluster.Dials())
		assert.EqualValues(t, 1, cluster.Puts())
		assert.EqualValues(t, 1, cluster.Gets())
		assert.Zero(t, cluster.OpenSessions())
	})
	t.Run("With no endpoints", func(t *testing.T) {
		_, err := NewCluster().Dial(context.Background())
		require.ErrorIs(t, err, client.ErrNoEndpoints)
	})
	t.Run("With unknown endpoint", func(t *testing.T) {
		_, err := NewCluster("etcd0:2379").Dial(context.Background(), "etcd9:2379")
		require.Error(t, err)
	})
	t.Run("With a node down", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379")
		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)

		cluster.Down("etcd0:2379")
		require.ErrorIs(t, session.Put(ctx, "k", "v"), ErrNodeDown)

		_, err = cluster.Dial(ctx, "etcd0:2379")
		require.ErrorIs(t, err, ErrNodeDown)

		cluster.Heal("etcd0:2379")
		require.NoError(t, session.Put(ctx, "k", "v"))
		require.NoError(t, session.Close())
	})
	t.Run("With a node down and a lazy dialer", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379")
		cluster.Down("etcd0:2379")

		session, err := cluster.Lazy().Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		require.ErrorIs(t, session.Put(ctx, "k", "v"), ErrNodeDown)
		_, _, err = session.Get(ctx, "k")
		require.ErrorIs(t, err, ErrNodeDown)

		_, err = cluster.Lazy().Dial(ctx, "etcd9:2379")
		require.Error(t, err)

		require.NoError(t, session.Close())
		assert.Zero(t, cluster.OpenSessions())
		assert.EqualValues(t, 2, cluster.Dials())
	})
	t.Run("With leases", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379")
		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		defer func() { require.NoError(t, session.Close()) }()

		lease, err := session.Grant(ctx, 3600)
		require.NoError(t, err)
		require.NoError(t, session.PutWithLease(ctx, "leased", "1", lease))
		require.NoError(t, session.PutWithLease(ctx, "detached", "2", lease))
		require.NoError(t, session.Put(ctx, "detached", "3"))
		require.NoError(t, session.Put(ctx, "unleased", "4"))

		attached, ok := cluster.Leased("leased")
		require.True(t, ok)
		assert.Equal(t, lease, attached)
		_, ok = cluster.Leased("detached")
		assert.False(t, ok)

		require.NoError(t, session.Revoke(ctx, lease))

		_, ok = cluster.Value("leased")
		assert.False(t, ok)
		value, ok := cluster.Value("detached")
		assert.True(t, ok)
		assert.Equal(t, "3", value)
		_, ok = cluster.Value("unleased")
		assert.True(t, ok)

		require.ErrorIs(t, session.Revoke(ctx, lease), ErrLeaseNotFound)
		require.ErrorIs(t, session.PutWithLease(ctx, "leased", "1", lease), ErrLeaseNotFound)
	})
	t.Run("With a failing lease operation", func(t *testing.T) {
		ctx := context.Background()
		boom := errors.New("boom")
		cluster := NewCluster("etcd0:2379")
		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		defer func() { require.NoError(t, session.Close()) }()

		lease, err := session.Grant(ctx, 60)
		require.NoError(t, err)

		cluster.Fail("etcd0:2379", OpRevoke, boom)
		require.ErrorIs(t, session.Revoke(ctx, lease), boom)
		cluster.Fail("etcd0:2379", OpGrant, boom)
		_, err = session.Grant(ctx, 60)
		require.ErrorIs(t, err, boom)
	})
	t.Run("With an operation failure", func(t *testing.T) {
		ctx := context.Background()
		boom := errors.New("boom")
		cluster := NewCluster("etcd0:2379")
		cluster.Fail("etcd0:2379", OpDelete, boom)
		cluster.Seed(map[string]string{"k": "v"})

		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		defer func() { require.NoError(t, session.Close()) }()

		_, err = session.Delete(ctx, "k")
		require.ErrorIs(t, err, boom)

		value, ok := cluster.Value("k")
		assert.True(t, ok)
		assert.Equal(t, "v", value)
	})
	t.Run("With a corrupted read", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379", "etcd1:2379")
		cluster.Corrupt("etcd1:2379", "foo2", "bar9")

		session, err := cluster.Dial(ctx, "etcd1:2379")
		require.NoError(t, err)
		defer func() { require.NoError(t, session.Close()) }()

		require.NoError(t, session.Put(ctx, "foo2", "bar2"))
		value, found, err := session.Get(ctx, "foo2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "bar9", value)

		stored, _ := cluster.Value("foo2")
		assert.Equal(t, "bar2", stored)
	})
	t.Run("With keys and deletes", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379")
		cluster.Seed(map[string]string{"b": "2", "a": "1", "other": "3"})

		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		defer func() { require.NoError(t, session.Close()) }()

		keys, err := session.Keys(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "other"}, keys)

		keys, err = session.Keys(ctx, "o")
		require.NoError(t, err)
		assert.Equal(t, []string{"other"}, keys)

		deleted, err := session.Delete(ctx, "a")
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		deleted, err = session.Delete(ctx, "a")
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.EqualValues(t, 1, cluster.Deletes())
	})
	t.Run("With closed session", func(t *testing.T) {
		ctx := context.Background()
		cluster := NewCluster("etcd0:2379")
		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)
		require.EqualValues(t, 1, cluster.OpenSessions())

		require.NoError(t, session.Close())
		require.NoError(t, session.Close())
		require.Zero(t, cluster.OpenSessions())

		require.ErrorIs(t, session.Put(ctx, "k", "v"), client.ErrSessionClosed)
	})
	t.Run("With canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cluster := NewCluster("etcd0:2379")
		session, err := cluster.Dial(ctx, "etcd0:2379")
		require.NoError(t, err)

		cancel()
		require.ErrorIs(t, session.Put(ctx, "k", "v"), context.Canceled)
		_, err = cluster.Dial(ctx, "etcd0:2379")
		require.ErrorIs(t, err, context.Canceled)
		require.NoError(t, session.Close())
	})
}

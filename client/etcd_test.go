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
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testcontainer "github.com/testcontainers/testcontainers-go/modules/etcd"
	"github.com/travisjeffery/go-dynaport"

	"github.com/tochemey/etcdcheck/log"
)

func TestEtcdDialer(t *testing.T) {
	t.Run("With no endpoints", func(t *testing.T) {
		session, err := NewDialer().Dial(t.Context())
		require.ErrorIs(t, err, ErrNoEndpoints)
		require.Nil(t, session)
	})
	t.Run("With invalid endpoint", func(t *testing.T) {
		session, err := NewDialer().Dial(t.Context(), "ftp://etcd0:2379")
		require.Error(t, err)
		require.Nil(t, session)
	})
	t.Run("With unreachable endpoint", func(t *testing.T) {
		port := dynaport.Get(1)[0]
		dialer := NewDialer(WithDialTimeout(500*time.Millisecond), WithLogger(log.DiscardLogger))

		session, err := dialer.Dial(t.Context(), fmt.Sprintf("http://127.0.0.1:%d", port))
		require.Error(t, err)
		require.Nil(t, session)
	})
	t.Run("With unreachable endpoint and lazy connect", func(t *testing.T) {
		port := dynaport.Get(1)[0]
		dialer := NewDialer(
			WithLazyConnect(),
			WithRequestTimeout(500*time.Millisecond),
			WithLogger(log.DiscardLogger),
		)

		session, err := dialer.Dial(t.Context(), fmt.Sprintf("http://127.0.0.1:%d", port))
		require.NoError(t, err)
		require.NotNil(t, session)
		defer closeSession(t, session)

		_, _, err = session.Get(t.Context(), "foo1")
		require.Error(t, err)
		require.Error(t, session.Put(t.Context(), "foo1", "bar1"))
	})
}

func TestEtcdSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping etcd container test in short mode")
	}

	cluster := startEtcdCluster(t)
	endpoints, err := cluster.ClientEndpoints(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, endpoints)

	dialer := NewDialer(WithRequestTimeout(5*time.Second), WithLogger(log.DiscardLogger))

	t.Run("With put and get round trip", func(t *testing.T) {
		ctx := t.Context()
		session, err := dialer.Dial(ctx, endpoints[0])
		require.NoError(t, err)
		defer closeSession(t, session)

		require.NoError(t, session.Put(ctx, "foo1", "bar1"))
		value, found, err := session.Get(ctx, "foo1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "bar1", value)
	})
	t.Run("With write visible from every node", func(t *testing.T) {
		ctx := t.Context()
		writer, err := dialer.Dial(ctx, endpoints[0])
		require.NoError(t, err)
		defer closeSession(t, writer)
		require.NoError(t, writer.Put(ctx, "replicated", "value"))

		for _, endpoint := range endpoints {
			reader, err := dialer.Dial(ctx, endpoint)
			require.NoError(t, err)
			value, found, err := reader.Get(ctx, "replicated")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "value", value)
			closeSession(t, reader)
		}
	})
	t.Run("With missing key", func(t *testing.T) {
		ctx := t.Context()
		session, err := dialer.Dial(ctx, endpoints...)
		require.NoError(t, err)
		defer closeSession(t, session)

		value, found, err := session.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})
	t.Run("With keys and delete", func(t *testing.T) {
		ctx := t.Context()
		session, err := dialer.Dial(ctx, endpoints...)
		require.NoError(t, err)
		defer closeSession(t, session)

		require.NoError(t, session.Put(ctx, "drivers/a", "1"))
		require.NoError(t, session.Put(ctx, "drivers/b", "2"))

		keys, err := session.Keys(ctx, "drivers/")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"drivers/a", "drivers/b"}, keys)

		deleted, err := session.Delete(ctx, "drivers/a")
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)

		deleted, err = session.Delete(ctx, "drivers/a")
		require.NoError(t, err)
		assert.Zero(t, deleted)

		keys, err = session.Keys(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, keys, "drivers/b")
		assert.NotContains(t, keys, "drivers/a")
	})
	t.Run("With leases", func(t *testing.T) {
		ctx := t.Context()
		session, err := dialer.Dial(ctx, endpoints[0])
		require.NoError(t, err)
		defer closeSession(t, session)

		lease, err := session.Grant(ctx, 3600)
		require.NoError(t, err)
		require.NoError(t, session.PutWithLease(ctx, "leased", "1", lease))
		require.NoError(t, session.Put(ctx, "unleased", "2"))

		require.NoError(t, session.Revoke(ctx, lease))

		_, found, err := session.Get(ctx, "leased")
		require.NoError(t, err)
		assert.False(t, found)
		value, found, err := session.Get(ctx, "unleased")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "2", value)

		require.Error(t, session.PutWithLease(ctx, "orphan", "3", lease))
	})
	t.Run("With closed session", func(t *testing.T) {
		ctx := context.Background()
		session, err := dialer.Dial(ctx, endpoints[0])
		require.NoError(t, err)
		require.NoError(t, session.Close())
		require.NoError(t, session.Close())

		require.ErrorIs(t, session.Put(ctx, "k", "v"), ErrSessionClosed)
		_, _, err = session.Get(ctx, "k")
		require.ErrorIs(t, err, ErrSessionClosed)
		_, err = session.Keys(ctx, "")
		require.ErrorIs(t, err, ErrSessionClosed)
		_, err = session.Delete(ctx, "k")
		require.ErrorIs(t, err, ErrSessionClosed)
		_, err = session.Grant(ctx, 10)
		require.ErrorIs(t, err, ErrSessionClosed)
		require.ErrorIs(t, session.PutWithLease(ctx, "k", "v", 1), ErrSessionClosed)
		require.ErrorIs(t, session.Revoke(ctx, 1), ErrSessionClosed)
	})
}

func startEtcdCluster(t *testing.T) *testcontainer.EtcdContainer {
	t.Helper()
	etcdContainer, err := testcontainer.Run(
		t.Context(),
		"gcr.io/etcd-development/etcd:v3.5.14",
		testcontainer.WithNodes("etcd-1", "etcd-2", "etcd-3"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		err := testcontainers.TerminateContainer(etcdContainer)
		require.NoError(t, err)
	})
	return etcdContainer
}

func closeSession(t *testing.T, session Session) {
	t.Helper()
	require.NoError(t, session.Close())
}

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

package deletion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/driver"
	"github.com/tochemey/etcdcheck/internal/random"
	"github.com/tochemey/etcdcheck/log"
	"github.com/tochemey/etcdcheck/testkit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seed(cluster *testkit.Cluster, count int) {
	kvs := make(map[string]string, count)
	for i := range count {
		kvs[fmt.Sprintf("key%02d", i)] = fmt.Sprintf("value%02d", i)
	}
	cluster.Seed(kvs)
}

func newDriver(t *testing.T, dialer client.Dialer, recorder *assertion.Recorder, output *bytes.Buffer) *Driver {
	t.Helper()
	d, err := NewDriver(
		WithDialer(dialer),
		WithAssertor(recorder),
		WithSource(random.NewSeeded(42)),
		WithLogger(log.DiscardLogger),
		WithOutput(output),
	)
	require.NoError(t, err)
	return d
}

func TestRun(t *testing.T) {
	t.Run("With keys to delete", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 10)
		recorder := assertion.NewRecorder()
		output := new(bytes.Buffer)

		summary, err := newDriver(t, cluster, recorder, output).Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, summary)

		assert.Equal(t, 10, summary.Listed)
		assert.Equal(t, []string{"key00", "key01", "key02", "key03", "key04"}, summary.Deleted)
		assert.Equal(t, 5, summary.Verified)
		assert.Empty(t, summary.Resurrected)

		for i := range 10 {
			_, ok := cluster.Value(fmt.Sprintf("key%02d", i))
			assert.Equal(t, i >= 5, ok)
		}

		listed := recorder.Find(assertion.KindSometimes, listedMessage)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].Condition)
		assert.Equal(t, assertion.Details{"error": nil}, listed[0].Details)
		assert.Len(t, recorder.Find(assertion.KindSometimes, deletedMessage), 5)
		assert.Len(t, recorder.Find(assertion.KindSometimes, readMessage), 5)

		gone := recorder.Find(assertion.KindAlways, goneMessage)
		require.Len(t, gone, 5)
		for i, signal := range gone {
			assert.True(t, signal.Condition)
			assert.Equal(t, assertion.Details{"key": fmt.Sprintf("key%02d", i)}, signal.Details)
		}

		assert.Len(t, recorder.Find(assertion.KindReachable, completedMessage), 1)
		assert.Empty(t, recorder.Violations())
		assert.Zero(t, cluster.OpenSessions())
		assert.EqualValues(t, 3, cluster.Dials())
		assert.Contains(t, output.String(), "Client [serial_driver_delete_keys]: successfully deleted key key00\n")
	})
	t.Run("With an odd number of keys", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 5)
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster, recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"key00", "key01"}, summary.Deleted)
	})
	t.Run("With an empty cluster", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster, recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		assert.Zero(t, summary.Listed)
		assert.Empty(t, summary.Deleted)
		assert.Zero(t, cluster.Deletes())
		assert.Len(t, recorder.Find(assertion.KindReachable, completedMessage), 1)
	})
	t.Run("With a failed listing", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 4)
		for _, endpoint := range client.DefaultEndpoints() {
			cluster.Fail(endpoint, testkit.OpKeys, errors.New("etcdserver: request timed out"))
		}
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster, recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Zero(t, summary.Listed)

		listed := recorder.Find(assertion.KindSometimes, listedMessage)
		require.Len(t, listed, 1)
		assert.False(t, listed[0].Condition)
		assert.Contains(t, listed[0].Details["error"], "request timed out")

		assert.Zero(t, recorder.Count(assertion.KindReachable))
		assert.EqualValues(t, 1, cluster.Dials())
		assert.Zero(t, cluster.OpenSessions())
	})
	t.Run("With failing deletes", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 4)
		for _, endpoint := range client.DefaultEndpoints() {
			cluster.Fail(endpoint, testkit.OpDelete, errors.New("etcdserver: no leader"))
		}
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster, recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, summary.Deleted)
		assert.Zero(t, summary.Verified)

		deleted := recorder.Find(assertion.KindSometimes, deletedMessage)
		require.Len(t, deleted, 2)
		for _, signal := range deleted {
			assert.False(t, signal.Condition)
		}
		assert.Empty(t, recorder.Find(assertion.KindAlways, goneMessage))
		assert.Len(t, recorder.Find(assertion.KindReachable, completedMessage), 1)
	})
	t.Run("With a deleted key still present", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 4)
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, &ignoringDeletesDialer{Dialer: cluster}, recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"key00", "key01"}, summary.Resurrected)

		violations := recorder.Violations()
		require.Len(t, violations, 2)
		assert.Equal(t, goneMessage, violations[0].Message)
		assert.Equal(t, assertion.Details{"key": "key00"}, violations[0].Details)
	})
	t.Run("With every node down", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		seed(cluster, 4)
		for _, endpoint := range client.DefaultEndpoints() {
			cluster.Down(endpoint)
		}
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster.Lazy(), recorder, new(bytes.Buffer)).Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Zero(t, summary.Listed)

		listed := recorder.Find(assertion.KindSometimes, listedMessage)
		require.Len(t, listed, 1)
		assert.False(t, listed[0].Condition)
		assert.Contains(t, listed[0].Details["error"], testkit.ErrNodeDown.Error())

		assert.Empty(t, recorder.Violations())
		assert.EqualValues(t, 1, cluster.Dials())
		assert.Zero(t, cluster.OpenSessions())
	})
	t.Run("With a node refusing connections", func(t *testing.T) {
		cluster := testkit.NewCluster(client.DefaultEndpoints()...)
		for _, endpoint := range client.DefaultEndpoints() {
			cluster.Down(endpoint)
		}
		recorder := assertion.NewRecorder()

		summary, err := newDriver(t, cluster, recorder, new(bytes.Buffer)).Run(context.Background())
		require.ErrorIs(t, err, driver.ErrConnect)
		assert.Nil(t, summary)

		violations := recorder.Violations()
		require.Len(t, violations, 1)
		assert.Equal(t, assertion.KindUnreachable, violations[0].Kind)
		assert.Equal(t, "Client failed to connect to an etcd host", violations[0].Message)
	})
}

func TestNewDriver(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		d, err := NewDriver()
		require.NoError(t, err)
		assert.Equal(t, "serial_driver_delete_keys", d.name)
		assert.Equal(t, client.DefaultEndpoints(), d.connector.Endpoints)
		dialer, ok := d.connector.Dialer.(*client.EtcdDialer)
		require.True(t, ok)
		assert.True(t, dialer.ConnectsLazily())
	})
	t.Run("With an invalid configuration", func(t *testing.T) {
		_, err := NewDriver(WithName(""), WithEndpoints(), WithSource(nil), WithOutput(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "the [Name] is required")
		assert.Contains(t, err.Error(), client.ErrNoEndpoints.Error())
		assert.Contains(t, err.Error(), "random source is required")
		assert.Contains(t, err.Error(), "output is required")
	})
}

// ignoringDeletesDialer hands out sessions that acknowledge deletes without applying them.
type ignoringDeletesDialer struct {
	client.Dialer
}

func (d *ignoringDeletesDialer) Dial(ctx context.Context, endpoints ...string) (client.Session, error) {
	session, err := d.Dialer.Dial(ctx, endpoints...)
	if err != nil {
		return nil, err
	}
	return &ignoringDeletesSession{Session: session}, nil
}

type ignoringDeletesSession struct {
	client.Session
}

func (s *ignoringDeletesSession) Delete(context.Context, string) (int64, error) {
	return 1, nil
}

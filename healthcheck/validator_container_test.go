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

package healthcheck

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testcontainer "github.com/testcontainers/testcontainers-go/modules/etcd"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/log"
)

func TestValidatorWithEtcd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping etcd container test in short mode")
	}

	etcdContainer, err := testcontainer.Run(
		t.Context(),
		"gcr.io/etcd-development/etcd:v3.5.14",
		testcontainer.WithNodes("etcd-1", "etcd-2", "etcd-3"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(etcdContainer))
	})

	endpoints, err := etcdContainer.ClientEndpoints(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, endpoints)

	nodes := make([]Node, 0, len(endpoints))
	for i, endpoint := range endpoints {
		nodes = append(nodes, Node{
			Endpoint: endpoint,
			Key:      fmt.Sprintf("foo%d", i+1),
			Value:    fmt.Sprintf("bar%d", i+1),
		})
	}

	recorder := assertion.NewRecorder()
	validator, err := NewValidator(
		WithNodes(nodes...),
		WithDialer(client.NewDialer(client.WithRequestTimeout(5*time.Second), client.WithLogger(log.DiscardLogger))),
		WithAssertor(recorder),
		WithLogger(log.DiscardLogger),
		WithOutput(new(bytes.Buffer)),
	)
	require.NoError(t, err)

	report, err := validator.Run(t.Context())
	require.NoError(t, err)
	assert.True(t, report.AllHealthy())
	assert.Equal(t, len(endpoints), report.HealthyCount)
	assert.Empty(t, recorder.Violations())

	always := recorder.Find(assertion.KindAlways, allNodesUpMessage)
	require.Len(t, always, 1)
	assert.True(t, always[0].Condition)
	assert.Equal(t, assertion.Details{"num_nodes_healthy": len(endpoints)}, always[0].Details)
}

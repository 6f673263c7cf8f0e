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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode(t *testing.T) {
	testCases := []struct {
		name    string
		node    Node
		wantErr string
	}{
		{name: "With a URL endpoint", node: Node{Endpoint: "http://etcd0:2379", Key: "foo1", Value: "bar1"}},
		{name: "With a bare endpoint", node: Node{Endpoint: "etcd0:2379", Key: "foo1", Value: "bar1"}},
		{name: "With no endpoint", node: Node{Key: "foo1", Value: "bar1"}, wantErr: "invalid endpoint"},
		{name: "With no key", node: Node{Endpoint: "http://etcd0:2379", Value: "bar1"}, wantErr: "the [Key] is required"},
		{name: "With no value", node: Node{Endpoint: "http://etcd0:2379", Key: "foo1"}, wantErr: "the [Value] is required"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.node.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDefaultNodes(t *testing.T) {
	nodes := DefaultNodes()
	assert.Equal(t, []Node{
		{Endpoint: "http://etcd0:2379", Key: "foo1", Value: "bar1"},
		{Endpoint: "http://etcd1:2379", Key: "foo2", Value: "bar2"},
		{Endpoint: "http://etcd2:2379", Key: "foo3", Value: "bar3"},
	}, nodes)

	// callers get their own copy
	nodes[0].Value = "changed"
	assert.Equal(t, "bar1", DefaultNodes()[0].Value)
}

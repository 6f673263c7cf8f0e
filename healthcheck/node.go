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
	"github.com/tochemey/etcdcheck/internal/validation"
)

// Node is one cluster member to check and the key/value pair written to it.
type Node struct {
	// Endpoint is the client URL of the node
	Endpoint string
	// Key is written then read back
	Key string
	// Value is written under Key
	Value string
}

var _ validation.Validator = Node{}

// Validate implements validation.Validator.
func (n Node) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEndpointValidator(n.Endpoint)).
		AddValidator(validation.NewEmptyStringValidator("Key", n.Key)).
		AddValidator(validation.NewEmptyStringValidator("Value", n.Value)).
		Validate()
}

// DefaultNodes returns the three members of the test cluster, each with its own key.
func DefaultNodes() []Node {
	return []Node{
		{Endpoint: "http://etcd0:2379", Key: "foo1", Value: "bar1"},
		{Endpoint: "http://etcd1:2379", Key: "foo2", Value: "bar2"},
		{Endpoint: "http://etcd2:2379", Key: "foo3", Value: "bar3"},
	}
}

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
	"crypto/tls"
	"time"

	"github.com/tochemey/etcdcheck/internal/validation"
)

// DefaultDialTimeout bounds how long Dial waits for a node to answer.
const DefaultDialTimeout = 5 * time.Second

// DefaultEndpoints returns the client URLs of the three-node test cluster.
func DefaultEndpoints() []string {
	return []string{"http://etcd0:2379", "http://etcd1:2379", "http://etcd2:2379"}
}

// Config holds the connection settings of an etcd session
type Config struct {
	// Endpoints is the list of etcd endpoints to connect to
	Endpoints []string
	// DialTimeout bounds the Status check made by Dial. It must be greater than zero.
	DialTimeout time.Duration
	// RequestTimeout bounds every key-value call. Zero leaves calls unbounded.
	RequestTimeout time.Duration
	// Username for etcd authentication (optional)
	Username string
	// Password for etcd authentication (optional)
	Password string
	// TLS configuration (optional)
	TLS *tls.Config
}

var _ validation.Validator = (*Config)(nil)

// Validate implements validation.Validator.
func (c *Config) Validate() error {
	return validation.New(validation.AllErrors()).
		AddEndpoints(c.Endpoints, ErrNoEndpoints.Error()).
		AddAssertion(c.DialTimeout > 0, "DialTimeout must be greater than 0").
		AddAssertion(c.RequestTimeout >= 0, "RequestTimeout must not be negative").
		AddAssertion(c.Password == "" || c.Username != "", "Username is required when Password is set").
		Validate()
}

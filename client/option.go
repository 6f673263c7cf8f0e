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

	"github.com/tochemey/etcdcheck/log"
)

// Option configures an EtcdDialer
type Option interface {
	// Apply sets the Option value of a dialer.
	Apply(dialer *EtcdDialer)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(dialer *EtcdDialer)

// Apply implements Option.
func (f OptionFunc) Apply(dialer *EtcdDialer) {
	f(dialer)
}

// WithDialTimeout sets how long Dial waits for a node to answer
func WithDialTimeout(timeout time.Duration) Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.dialTimeout = timeout
	})
}

// WithRequestTimeout bounds every key-value call made through a session
func WithRequestTimeout(timeout time.Duration) Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.requestTimeout = timeout
	})
}

// WithCredentials sets the etcd authentication credentials
func WithCredentials(username, password string) Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.username = username
		dialer.password = password
	})
}

// WithTLS sets the TLS configuration used to reach the nodes
func WithTLS(config *tls.Config) Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.tls = config
	})
}

// WithLazyConnect skips the Status check in Dial. The session is returned as soon
// as the client is created and an unreachable node only shows up as failing calls.
func WithLazyConnect() Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.lazy = true
	})
}

// WithLogger sets the logger. It also receives the logs of the etcd client.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(dialer *EtcdDialer) {
		dialer.logger = logger
	})
}

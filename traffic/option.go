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

package traffic

import (
	"io"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/oplog"
	"github.com/tochemey/etcdcheck/internal/random"
	"github.com/tochemey/etcdcheck/log"
)

// Option configures a Driver
type Option interface {
	// Apply sets the Option value of a driver.
	Apply(driver *Driver)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(driver *Driver)

// Apply implements Option.
func (f OptionFunc) Apply(driver *Driver) {
	f(driver)
}

// WithName sets the name printed in the console lines
func WithName(name string) Option {
	return OptionFunc(func(driver *Driver) {
		driver.name = name
	})
}

// WithEndpoints sets the endpoints a node is picked from
func WithEndpoints(endpoints ...string) Option {
	return OptionFunc(func(driver *Driver) {
		driver.connector.Endpoints = endpoints
	})
}

// WithDialer sets the dialer
func WithDialer(dialer client.Dialer) Option {
	return OptionFunc(func(driver *Driver) {
		driver.connector.Dialer = dialer
	})
}

// WithAssertor sets the assertion collaborator
func WithAssertor(assertor assertion.Assertor) Option {
	return OptionFunc(func(driver *Driver) {
		driver.connector.Assertor = assertor
	})
}

// WithSource sets the randomness used to pick nodes and generate the pairs
func WithSource(source random.Source) Option {
	return OptionFunc(func(driver *Driver) {
		driver.connector.Source = source
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(driver *Driver) {
		driver.connector.Logger = logger
	})
}

// WithOutput sets where the console lines are written
func WithOutput(output io.Writer) Option {
	return OptionFunc(func(driver *Driver) {
		driver.output = output
	})
}

// WithLeases attaches a random part of the pairs to a lease and checks the
// effect of its revocation
func WithLeases() Option {
	return OptionFunc(func(driver *Driver) {
		driver.leases = true
	})
}

// WithHistory records every put and get in the operations log
func WithHistory(history oplog.Log) Option {
	return OptionFunc(func(driver *Driver) {
		driver.history = history
	})
}

// WithClock sets the clock timing the recorded calls, in nanoseconds
func WithClock(clock func() int64) Option {
	return OptionFunc(func(driver *Driver) {
		driver.clock = clock
	})
}

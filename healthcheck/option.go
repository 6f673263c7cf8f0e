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
	"io"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/log"
)

// Option configures a Validator
type Option interface {
	// Apply sets the Option value of a validator.
	Apply(validator *Validator)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(validator *Validator)

// Apply implements Option.
func (f OptionFunc) Apply(validator *Validator) {
	f(validator)
}

// WithName sets the name printed in the console status lines
func WithName(name string) Option {
	return OptionFunc(func(validator *Validator) {
		validator.name = name
	})
}

// WithNodes replaces the default nodes
func WithNodes(nodes ...Node) Option {
	return OptionFunc(func(validator *Validator) {
		validator.nodes = nodes
	})
}

// WithLivenessMarker makes Run emit the liveness marker and then wait
// quiescentPeriod before checking the nodes.
func WithLivenessMarker(quiescentPeriod time.Duration) Option {
	return OptionFunc(func(validator *Validator) {
		validator.livenessMarker = true
		validator.quiescentPeriod = quiescentPeriod
	})
}

// WithDialer sets the dialer used to reach the nodes
func WithDialer(dialer client.Dialer) Option {
	return OptionFunc(func(validator *Validator) {
		validator.dialer = dialer
	})
}

// WithAssertor sets the assertion collaborator
func WithAssertor(assertor assertion.Assertor) Option {
	return OptionFunc(func(validator *Validator) {
		validator.assertor = assertor
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(validator *Validator) {
		validator.logger = logger
	})
}

// WithOutput sets where the console status lines are written
func WithOutput(output io.Writer) Option {
	return OptionFunc(func(validator *Validator) {
		validator.output = output
	})
}

// WithMeterProvider sets the provider of the health check instruments
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(validator *Validator) {
		validator.meterProvider = provider
	})
}

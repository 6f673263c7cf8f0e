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

package linearizability

import (
	"io"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/log"
)

// Option configures a Checker
type Option interface {
	// Apply sets the Option value of a checker.
	Apply(checker *Checker)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(checker *Checker)

// Apply implements Option.
func (f OptionFunc) Apply(checker *Checker) {
	f(checker)
}

// WithName sets the name printed in the console lines
func WithName(name string) Option {
	return OptionFunc(func(checker *Checker) {
		checker.name = name
	})
}

// WithMaxFailed bounds the failed puts of a key whose combinations are tried.
// The number of checks grows as 2^limit.
func WithMaxFailed(limit int) Option {
	return OptionFunc(func(checker *Checker) {
		checker.maxFailed = limit
	})
}

// WithAssertor sets the assertion collaborator
func WithAssertor(assertor assertion.Assertor) Option {
	return OptionFunc(func(checker *Checker) {
		checker.assertor = assertor
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(checker *Checker) {
		checker.logger = logger
	})
}

// WithOutput sets where the console lines are written
func WithOutput(output io.Writer) Option {
	return OptionFunc(func(checker *Checker) {
		checker.output = output
	})
}

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

package assertion

import (
	"github.com/tochemey/etcdcheck/log"
)

type loggingAssertor struct {
	underlying Assertor
	logger     log.Logger
}

var _ Assertor = (*loggingAssertor)(nil)

// WithLogger wraps an Assertor so that every signal is also logged.
// Unreachable signals and failed Always properties are logged at error level.
func WithLogger(underlying Assertor, logger log.Logger) Assertor {
	return &loggingAssertor{underlying: underlying, logger: logger}
}

// Reachable implements Assertor.
func (x *loggingAssertor) Reachable(message string, details Details) {
	x.logger.Debugf("reachable: %s details=%v", message, details)
	x.underlying.Reachable(message, details)
}

// Unreachable implements Assertor.
func (x *loggingAssertor) Unreachable(message string, details Details) {
	x.logger.Errorf("unreachable: %s details=%v", message, details)
	x.underlying.Unreachable(message, details)
}

// Always implements Assertor.
func (x *loggingAssertor) Always(condition bool, message string, details Details) {
	if condition {
		x.logger.Debugf("always held: %s details=%v", message, details)
	} else {
		x.logger.Errorf("always violated: %s details=%v", message, details)
	}
	x.underlying.Always(condition, message, details)
}

// Sometimes implements Assertor.
func (x *loggingAssertor) Sometimes(condition bool, message string, details Details) {
	x.logger.Debugf("sometimes(%t): %s details=%v", condition, message, details)
	x.underlying.Sometimes(condition, message, details)
}

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

// Package assertion carries the signals a check sends to the fault-injection harness.
//
// Checks never call the harness SDK directly. They receive an Assertor (and a
// Lifecycle when they take part in setup) so that tests can swap in a Recorder.
package assertion

// Details is the structured payload attached to an assertion.
type Details map[string]any

// Assertor exposes the assertion primitives of the harness.
type Assertor interface {
	// Reachable records that a code point was reached.
	Reachable(message string, details Details)
	// Unreachable records a condition that must never happen.
	Unreachable(message string, details Details)
	// Always records a property that must hold on every evaluation.
	Always(condition bool, message string, details Details)
	// Sometimes records a property that must hold at least once.
	Sometimes(condition bool, message string, details Details)
}

// Lifecycle exposes the harness lifecycle hooks.
type Lifecycle interface {
	// SetupComplete tells the harness the system under test is ready for faults.
	SetupComplete(details Details)
}

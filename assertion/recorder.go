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
	"sync"
)

// Kind names an assertion primitive.
type Kind int

const (
	// KindReachable is a Reachable signal
	KindReachable Kind = iota
	// KindUnreachable is an Unreachable signal
	KindUnreachable
	// KindAlways is an Always signal
	KindAlways
	// KindSometimes is a Sometimes signal
	KindSometimes
)

// String returns the name of the primitive
func (k Kind) String() string {
	switch k {
	case KindReachable:
		return "reachable"
	case KindUnreachable:
		return "unreachable"
	case KindAlways:
		return "always"
	case KindSometimes:
		return "sometimes"
	default:
		return "unknown"
	}
}

// Signal is one recorded assertion.
// Condition is true for Reachable and false for Unreachable.
type Signal struct {
	Kind      Kind
	Message   string
	Condition bool
	Details   Details
}

// Recorder keeps every signal in memory. It is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	signals       []Signal
	setupComplete bool
	setupDetails  Details
}

var (
	_ Assertor  = (*Recorder)(nil)
	_ Lifecycle = (*Recorder)(nil)
)

// NewRecorder creates an instance of Recorder
func NewRecorder() *Recorder {
	return &Recorder{
		signals: make([]Signal, 0),
	}
}

// Reachable implements Assertor.
func (r *Recorder) Reachable(message string, details Details) {
	r.record(Signal{Kind: KindReachable, Message: message, Condition: true, Details: details})
}

// Unreachable implements Assertor.
func (r *Recorder) Unreachable(message string, details Details) {
	r.record(Signal{Kind: KindUnreachable, Message: message, Details: details})
}

// Always implements Assertor.
func (r *Recorder) Always(condition bool, message string, details Details) {
	r.record(Signal{Kind: KindAlways, Message: message, Condition: condition, Details: details})
}

// Sometimes implements Assertor.
func (r *Recorder) Sometimes(condition bool, message string, details Details) {
	r.record(Signal{Kind: KindSometimes, Message: message, Condition: condition, Details: details})
}

// SetupComplete implements Lifecycle.
func (r *Recorder) SetupComplete(details Details) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setupComplete = true
	r.setupDetails = details
}

// Signals returns a copy of every recorded signal, in order.
func (r *Recorder) Signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Signal, len(r.signals))
	copy(out, r.signals)
	return out
}

// Find returns the signals of the given kind carrying the given message.
func (r *Recorder) Find(kind Kind, message string) []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Signal
	for _, signal := range r.signals {
		if signal.Kind == kind && signal.Message == message {
			out = append(out, signal)
		}
	}
	return out
}

// Count returns how many signals of the given kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, signal := range r.signals {
		if signal.Kind == kind {
			count++
		}
	}
	return count
}

// Violations returns the Unreachable signals and the Always signals whose condition was false.
func (r *Recorder) Violations() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Signal
	for _, signal := range r.signals {
		if signal.Kind == KindUnreachable || (signal.Kind == KindAlways && !signal.Condition) {
			out = append(out, signal)
		}
	}
	return out
}

// SetupCompleted reports whether SetupComplete was called, with its details.
func (r *Recorder) SetupCompleted() (bool, Details) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setupComplete, r.setupDetails
}

// Reset drops every recorded signal.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = r.signals[:0]
	r.setupDetails = nil
	r.setupComplete = false
}

func (r *Recorder) record(signal Signal) {
	r.mu.Lock()
	r.signals = append(r.signals, signal)
	r.mu.Unlock()
}

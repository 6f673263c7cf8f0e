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

import "time"

// Status is the outcome of a node round trip
type Status int

const (
	// StatusHealthy means the value read back matched the value written
	StatusHealthy Status = iota
	// StatusUnreachable means the connection, the put or the get failed
	StatusUnreachable
	// StatusInconsistent means the value read back differed from the value written
	StatusInconsistent
)

// String returns the status name used in logs and metric attributes
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnreachable:
		return "unreachable"
	case StatusInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// Mismatch describes an inconsistent read.
// Found is false when the key was missing right after the put.
type Mismatch struct {
	Key      string
	Expected string
	Observed string
	Found    bool
}

// Result is the outcome of checking one node.
type Result struct {
	Node     Node
	Status   Status
	Err      error
	Mismatch *Mismatch
	Duration time.Duration
}

// Healthy reports whether the round trip succeeded with a matching value
func (r *Result) Healthy() bool {
	return r.Status == StatusHealthy
}

// Report aggregates the results of a run, in node order.
type Report struct {
	Results      []*Result
	HealthyCount int
}

func newReport(size int) *Report {
	return &Report{Results: make([]*Result, 0, size)}
}

func (r *Report) add(result *Result) {
	r.Results = append(r.Results, result)
	if result.Healthy() {
		r.HealthyCount++
	}
}

// Total returns the number of nodes checked
func (r *Report) Total() int {
	return len(r.Results)
}

// AllHealthy reports whether every checked node was healthy
func (r *Report) AllHealthy() bool {
	return r.HealthyCount == r.Total()
}

// Unhealthy returns the results of the nodes that failed
func (r *Report) Unhealthy() []*Result {
	var out []*Result
	for _, result := range r.Results {
		if !result.Healthy() {
			out = append(out, result)
		}
	}
	return out
}

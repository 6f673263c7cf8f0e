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

// Package linearizability checks that the calls recorded by the traffic
// drivers can be ordered into a sequential history of per-key registers.
//
// Successful calls are checked first. When a key cannot be linearized, the
// failed puts of that key, whose effect is unknown, are added back in every
// combination until one linearizes.
package linearizability

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/anishathalye/porcupine"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/internal/oplog"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

// DefaultMaxFailed bounds the failed puts of a key whose combinations are tried.
const DefaultMaxFailed = 12

const linearizableMessage = "Operations against the cluster are linearizable"

// Verdict is the outcome of a check.
type Verdict int

const (
	// Linearizable means every key has a sequential history
	Linearizable Verdict = iota
	// Illegal means at least one key has none, whatever failed puts took effect
	Illegal
	// Unknown means some key had too many failed puts to try every combination
	Unknown
)

// String returns the name of the verdict
func (v Verdict) String() string {
	switch v {
	case Linearizable:
		return "linearizable"
	case Illegal:
		return "illegal"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Report is the result of a check.
type Report struct {
	Verdict Verdict
	// Successful and Failed count the operations checked
	Successful int
	Failed     int
	// Illegal holds the keys without a sequential history, sorted
	Illegal []string
	// Undecided holds the keys with too many failed puts, sorted
	Undecided []string
	// Included maps a key to the failed puts that made it linearizable
	Included map[string][]oplog.Operation
}

// Checker checks operation histories.
type Checker struct {
	name      string
	maxFailed int
	assertor  assertion.Assertor
	logger    log.Logger
	output    io.Writer
}

// NewChecker creates a Checker reporting to the Antithesis SDK.
func NewChecker(opts ...Option) (*Checker, error) {
	checker := &Checker{
		name:      "serial_driver_validate_operations",
		maxFailed: DefaultMaxFailed,
		assertor:  assertion.NewAntithesis(),
		logger:    log.DefaultLogger,
		output:    os.Stdout,
	}

	for _, opt := range opts {
		opt.Apply(checker)
	}

	if err := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("Name", checker.name)).
		AddAssertion(checker.maxFailed >= 0, "max failed operations must not be negative").
		AddAssertion(checker.assertor != nil, "assertor is required").
		AddAssertion(checker.logger != nil, "logger is required").
		AddAssertion(checker.output != nil, "output is required").
		Validate(); err != nil {
		return nil, err
	}
	return checker, nil
}

// Run reads the operations log at path, checks it and asserts that the history
// is linearizable. Nothing is asserted when the log holds no successful operation.
func (x *Checker) Run(path string) (*Report, error) {
	x.printf("opening operations log %s", path)
	history, err := oplog.ReadFile(path)
	if err != nil {
		x.printf("error reading the operations log, can't validate")
		return nil, fmt.Errorf("failed to read the operations log: %w", err)
	}

	report := x.Check(history)
	x.printf("%d successful and %d failed operations found", report.Successful, report.Failed)
	if report.Successful == 0 {
		x.printf("no successful operations, can't validate")
		return report, nil
	}

	x.assertor.Always(report.Verdict != Illegal, linearizableMessage, assertion.Details{
		"successful_operations": report.Successful,
		"failed_operations":     report.Failed,
		"illegal_keys":          report.Illegal,
	})
	x.printf("validate result %s", report.Verdict)
	return report, nil
}

// Check checks history key by key. Failed gets are ignored since a read that
// did not answer tells nothing about the state.
func (x *Checker) Check(history []oplog.Operation) *Report {
	report := &Report{Included: make(map[string][]oplog.Operation)}

	var horizon int64
	for _, op := range history {
		horizon = max(horizon, op.End)
	}
	horizon++

	successful := make(map[string][]porcupine.Operation)
	failed := make(map[string][]oplog.Operation)
	for _, op := range history {
		switch {
		case op.Success:
			report.Successful++
			successful[op.Key] = append(successful[op.Key], toPorcupine(op, horizon))
		case op.Kind == oplog.KindPut:
			report.Failed++
			failed[op.Key] = append(failed[op.Key], op)
		}
	}

	keys := make([]string, 0, len(successful))
	for key := range successful {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if porcupine.CheckOperations(model, successful[key]) {
			continue
		}

		candidates := failed[key]
		if len(candidates) > x.maxFailed {
			x.logger.Warnf("key=%s is not linearizable and has %d failed puts, more than the %d combined", key, len(candidates), x.maxFailed)
			report.Undecided = append(report.Undecided, key)
			continue
		}

		x.printf("key %s: %d failed operations to check", key, len(candidates))
		included, ok := x.combine(successful[key], candidates, horizon)
		if !ok {
			x.logger.Errorf("key=%s is not linearizable", key)
			report.Illegal = append(report.Illegal, key)
			continue
		}

		x.printf("key %s: linearizable with %d failed operations", key, len(included))
		report.Included[key] = included
	}

	switch {
	case len(report.Illegal) > 0:
		report.Verdict = Illegal
	case len(report.Undecided) > 0:
		report.Verdict = Unknown
	default:
		report.Verdict = Linearizable
	}
	return report
}

// combine returns the first combination of candidates that linearizes with operations.
func (x *Checker) combine(operations []porcupine.Operation, candidates []oplog.Operation, horizon int64) ([]oplog.Operation, bool) {
	for subset := range subsets(candidates) {
		history := slices.Clip(operations)
		for _, op := range subset {
			history = append(history, toPorcupine(op, horizon))
		}

		if porcupine.CheckOperations(model, history) {
			return subset, true
		}
	}
	return nil, false
}

func (x *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.output, "Workload [%s]: %s\n", x.name, fmt.Sprintf(format, args...))
}

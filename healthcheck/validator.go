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

// Package healthcheck verifies that every node of an etcd cluster accepts a
// write and returns it unchanged.
//
// A run optionally emits a liveness marker and waits a quiescent period so that
// a fault injector that was just turned off leaves the cluster time to recover.
// It then checks the nodes one at a time. A failing node is reported through the
// assertion collaborator and never stops the run. The run ends with a single
// assertion that every node was healthy.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

// DefaultQuiescentPeriod is how long a run waits for the cluster to recover
// when the liveness marker is enabled.
const DefaultQuiescentPeriod = 15 * time.Second

const (
	livenessMessage     = "Performing health check on the etcd cluster"
	unreachableMessage  = "Execution exception was hit during health check"
	inconsistentMessage = "Data is inconsistent during health check"
	allNodesUpMessage   = "All nodes are up during health check"
)

// Validator checks the nodes of an etcd cluster.
type Validator struct {
	name            string
	nodes           []Node
	livenessMarker  bool
	quiescentPeriod time.Duration

	dialer        client.Dialer
	assertor      assertion.Assertor
	logger        log.Logger
	output        io.Writer
	meterProvider metric.MeterProvider
	metrics       *metrics
}

// NewValidator creates a Validator for DefaultNodes reporting to the Antithesis SDK.
// The liveness marker and the quiescent wait are off unless WithLivenessMarker is given.
func NewValidator(opts ...Option) (*Validator, error) {
	validator := &Validator{
		name:            "health_check",
		nodes:           DefaultNodes(),
		quiescentPeriod: DefaultQuiescentPeriod,
		dialer:          client.NewDialer(),
		assertor:        assertion.NewAntithesis(),
		logger:          log.DefaultLogger,
		output:          os.Stdout,
		meterProvider:   otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt.Apply(validator)
	}

	if err := validator.validate(); err != nil {
		return nil, err
	}

	m, err := newMetrics(validator.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	validator.metrics = m
	return validator, nil
}

func (x *Validator) validate() error {
	if len(x.nodes) == 0 {
		return ErrNoNodes
	}

	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("Name", x.name)).
		AddAssertion(x.quiescentPeriod >= 0, "quiescent period must not be negative").
		AddAssertion(x.dialer != nil, "dialer is required").
		AddAssertion(x.assertor != nil, "assertor is required").
		AddAssertion(x.logger != nil, "logger is required").
		AddAssertion(x.output != nil, "output is required").
		AddAssertion(x.meterProvider != nil, "meter provider is required")

	for _, node := range x.nodes {
		chain.AddValidator(node)
	}
	return chain.Validate()
}

// Run checks every node in order and returns the aggregate report.
//
// ctx only governs the quiescent wait: canceling it during the wait returns
// ErrInterrupted and no node is checked. Once checking has started the run
// completes. A non-nil report is returned whenever the error is nil, whatever
// the health of the cluster.
func (x *Validator) Run(ctx context.Context) (*Report, error) {
	logger := x.logger.With("run_id", uuid.NewString(), "check", x.name)

	if x.livenessMarker {
		x.assertor.Reachable(livenessMessage, nil)

		logger.Infof("waiting %s for the cluster to recover", x.quiescentPeriod)
		if err := x.wait(ctx); err != nil {
			x.printf("interrupted while waiting for the cluster to recover")
			logger.Error(err)
			return nil, err
		}
	}

	checkCtx := context.WithoutCancel(ctx)
	report := newReport(len(x.nodes))
	for _, node := range x.nodes {
		report.add(x.validateNode(checkCtx, logger, node))
	}

	x.assertor.Always(report.AllHealthy(), allNodesUpMessage, assertion.Details{
		"num_nodes_healthy": report.HealthyCount,
	})

	if report.AllHealthy() {
		x.printf("all nodes are up during health check")
	} else {
		x.printf("at least one node is not available during health check")
	}

	logger.Infof("health check completed: %d/%d nodes healthy", report.HealthyCount, report.Total())
	return report, nil
}

// ValidateNode writes the node's key/value pair, reads it back and compares both.
// Failures are reported through the assertor and returned in the Result. No retry is made.
func (x *Validator) ValidateNode(ctx context.Context, node Node) *Result {
	return x.validateNode(ctx, x.logger, node)
}

func (x *Validator) validateNode(ctx context.Context, logger log.Logger, node Node) *Result {
	logger = logger.With("endpoint", node.Endpoint, "key", node.Key)

	start := time.Now()
	result := x.roundTrip(ctx, logger, node)
	result.Duration = time.Since(start)
	x.metrics.record(ctx, result)

	switch result.Status {
	case StatusUnreachable:
		logger.Warnf("node is unreachable: %v", result.Err)
		x.assertor.Unreachable(unreachableMessage, assertion.Details{
			"endpoint": node.Endpoint,
			"key":      node.Key,
			"error":    result.Err.Error(),
		})
	case StatusInconsistent:
		logger.Errorf("node returned %q instead of %q", result.Mismatch.Observed, result.Mismatch.Expected)
		x.assertor.Unreachable(inconsistentMessage, assertion.Details{
			"key":            result.Mismatch.Key,
			"value":          result.Mismatch.Expected,
			"retrieve_value": result.Mismatch.Observed,
		})
	default:
		logger.Debugf("node is healthy (%s)", result.Duration)
	}
	return result
}

func (x *Validator) roundTrip(ctx context.Context, logger log.Logger, node Node) *Result {
	session, err := x.dialer.Dial(ctx, node.Endpoint)
	if err != nil {
		return &Result{Node: node, Status: StatusUnreachable, Err: err}
	}

	if err := session.Put(ctx, node.Key, node.Value); err != nil {
		return &Result{Node: node, Status: StatusUnreachable, Err: closeOnError(session, err)}
	}

	observed, found, err := session.Get(ctx, node.Key)
	if err != nil {
		return &Result{Node: node, Status: StatusUnreachable, Err: closeOnError(session, err)}
	}

	if found {
		x.printf("retrieved value for '%s': %s", node.Key, observed)
	} else {
		x.printf("no value found for '%s'", node.Key)
	}

	// the round trip is complete, a failing close does not make the node unhealthy
	if err := session.Close(); err != nil {
		logger.Warnf("failed to close session: %v", err)
	}

	if !found || observed != node.Value {
		return &Result{
			Node:   node,
			Status: StatusInconsistent,
			Mismatch: &Mismatch{
				Key:      node.Key,
				Expected: node.Value,
				Observed: observed,
				Found:    found,
			},
		}
	}
	return &Result{Node: node, Status: StatusHealthy}
}

func (x *Validator) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	if x.quiescentPeriod == 0 {
		return nil
	}

	timer := time.NewTimer(x.quiescentPeriod)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (x *Validator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.output, "Client [%s]: %s\n", x.name, fmt.Sprintf(format, args...))
}

func closeOnError(session client.Session, err error) error {
	if cerr := session.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

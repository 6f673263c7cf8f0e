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

// Package readiness waits until every node of the cluster answers and then
// tells the harness that setup is complete.
package readiness

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/multierr"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

const (
	// DefaultMaxRetries is the number of attempts made before giving up
	DefaultMaxRetries = 60
	// DefaultInitialDelay is the delay before the second attempt
	DefaultInitialDelay = time.Second
	// DefaultMaxDelay caps the backoff between attempts
	DefaultMaxDelay = 10 * time.Second

	readinessKey   = "setting-up"
	healthyMessage = "ETCD cluster is healthy"
)

// Checker reads from every node until all of them answer.
type Checker struct {
	name         string
	endpoints    []string
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration

	dialer    client.Dialer
	lifecycle assertion.Lifecycle
	logger    log.Logger
	output    io.Writer
}

// NewChecker creates a Checker for the default endpoints reporting to the Antithesis SDK.
func NewChecker(opts ...Option) (*Checker, error) {
	checker := &Checker{
		name:         "entrypoint",
		endpoints:    client.DefaultEndpoints(),
		maxRetries:   DefaultMaxRetries,
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
		dialer:       client.NewDialer(),
		lifecycle:    assertion.NewAntithesis(),
		logger:       log.DefaultLogger,
		output:       os.Stdout,
	}

	for _, opt := range opts {
		opt.Apply(checker)
	}

	if err := checker.validate(); err != nil {
		return nil, err
	}
	return checker, nil
}

func (x *Checker) validate() error {
	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("Name", x.name)).
		AddEndpoints(x.endpoints, client.ErrNoEndpoints.Error()).
		AddAssertion(x.maxRetries > 0, "max retries must be greater than 0").
		AddAssertion(x.initialDelay > 0, "initial delay must be greater than 0").
		AddAssertion(x.maxDelay >= x.initialDelay, "max delay must not be lower than the initial delay").
		AddAssertion(x.dialer != nil, "dialer is required").
		AddAssertion(x.lifecycle != nil, "lifecycle is required").
		AddAssertion(x.logger != nil, "logger is required").
		AddAssertion(x.output != nil, "output is required").
		Validate()
}

// Run reads from every node with an exponential backoff until every node answers,
// then signals setup complete. It returns the errors of the last attempt when the
// retries are exhausted, or the context error when ctx is done first.
func (x *Checker) Run(ctx context.Context) error {
	x.printf("starting...")

	attempt := 0
	retrier := retry.NewRetrier(x.maxRetries, x.initialDelay, x.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		attempt++
		x.printf("checking cluster health...")
		if err := x.check(ctx); err != nil {
			x.logger.Warnf("attempt %d/%d failed: %v", attempt, x.maxRetries, err)
			x.printf("cluster is not healthy. retrying...")
			return err
		}
		return nil
	})
	if err != nil {
		x.logger.Errorf("cluster did not become healthy after %d attempts: %v", attempt, err)
		return fmt.Errorf("cluster is not healthy: %w", err)
	}

	x.printf("cluster is healthy!")
	x.lifecycle.SetupComplete(assertion.Details{"Message": healthyMessage})
	return nil
}

// check reads from every node once and returns the combined failures.
func (x *Checker) check(ctx context.Context) error {
	var err error
	for _, endpoint := range x.endpoints {
		if perr := x.ping(ctx, endpoint); perr != nil {
			x.printf("connection failed with %s", endpoint)
			x.printf("error: %v", perr)
			err = multierr.Append(err, perr)
			continue
		}
		x.printf("connection successful with %s", endpoint)
	}
	return err
}

func (x *Checker) ping(ctx context.Context, endpoint string) error {
	session, err := x.dialer.Dial(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("node %s: %w", endpoint, err)
	}

	_, _, err = session.Get(ctx, readinessKey)
	if err = multierr.Append(err, session.Close()); err != nil {
		return fmt.Errorf("node %s: %w", endpoint, err)
	}
	return nil
}

func (x *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.output, "Workload [%s]: %s\n", x.name, fmt.Sprintf(format, args...))
}

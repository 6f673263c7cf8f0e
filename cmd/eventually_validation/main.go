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

// Command eventually_validation checks every node of the cluster right away.
package main

import (
	"context"
	"os"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/healthcheck"
	"github.com/tochemey/etcdcheck/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.DefaultLogger
	defer func() { _ = logger.Flush() }()

	validator, err := healthcheck.NewValidator(
		healthcheck.WithName("eventually_validation"),
		healthcheck.WithAssertor(assertion.WithLogger(assertion.NewAntithesis(), logger)),
		healthcheck.WithLogger(logger),
	)
	if err != nil {
		logger.Errorf("invalid health check configuration: %v", err)
		return 1
	}

	if _, err := validator.Run(context.Background()); err != nil {
		return 1
	}
	return 0
}

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

// Command entrypoint waits for every node of the cluster to answer, signals
// setup complete and then stays alive until it is stopped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tochemey/etcdcheck/log"
	"github.com/tochemey/etcdcheck/readiness"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.DefaultLogger
	defer func() { _ = logger.Flush() }()

	checker, err := readiness.NewChecker(readiness.WithLogger(logger))
	if err != nil {
		logger.Errorf("invalid readiness configuration: %v", err)
		return 1
	}

	if err := checker.Run(ctx); err != nil {
		return 1
	}

	// the workload container must outlive the setup
	<-ctx.Done()
	return 0
}

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

// Command parallel_driver_generate_leased_traffic writes random pairs, some of
// them attached to a lease, revokes the lease and checks which keys remain.
package main

import (
	"context"
	"os"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/internal/oplog"
	"github.com/tochemey/etcdcheck/log"
	"github.com/tochemey/etcdcheck/traffic"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.DefaultLogger
	defer func() { _ = logger.Flush() }()

	driver, err := traffic.NewDriver(
		traffic.WithName("parallel_driver_generate_leased_traffic"),
		traffic.WithLeases(),
		traffic.WithAssertor(assertion.WithLogger(assertion.NewAntithesis(), logger)),
		traffic.WithLogger(logger),
		traffic.WithHistory(oplog.NewFile(oplog.DefaultDir)),
	)
	if err != nil {
		logger.Errorf("invalid driver configuration: %v", err)
		return 1
	}

	if _, err := driver.Run(context.Background()); err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}

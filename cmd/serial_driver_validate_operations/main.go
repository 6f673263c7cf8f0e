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

// Command serial_driver_validate_operations checks that the operations logged by
// the traffic drivers are linearizable.
//
// The log path defaults to the harness output directory and may be given as the
// first argument. A missing log means no traffic ran yet and is not an error.
package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/internal/oplog"
	"github.com/tochemey/etcdcheck/linearizability"
	"github.com/tochemey/etcdcheck/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.DefaultLogger
	defer func() { _ = logger.Flush() }()

	path := filepath.Join(oplog.DefaultDir, oplog.OperationsFile)
	if len(args) > 0 {
		path = args[0]
	}

	checker, err := linearizability.NewChecker(
		linearizability.WithAssertor(assertion.WithLogger(assertion.NewAntithesis(), logger)),
		linearizability.WithLogger(logger),
	)
	if err != nil {
		logger.Errorf("invalid checker configuration: %v", err)
		return 1
	}

	if _, err := checker.Run(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("no operations log at %s", path)
			return 0
		}
		logger.Error(err)
		return 1
	}
	return 0
}

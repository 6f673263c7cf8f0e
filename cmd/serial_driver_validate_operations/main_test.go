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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/etcdcheck/internal/oplog"
)

func TestRun(t *testing.T) {
	t.Run("With a linearizable log", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), oplog.OperationsFile)
		file, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, oplog.Write(file,
			oplog.Operation{ClientID: 1, Kind: oplog.KindPut, Start: 1, End: 2, Key: "a", Value: "x", Success: true},
			oplog.Operation{ClientID: 2, Kind: oplog.KindGet, Start: 3, End: 4, Key: "a", Response: "x", Success: true},
		))
		require.NoError(t, file.Close())

		assert.Zero(t, run([]string{path}))
	})
	t.Run("With no log", func(t *testing.T) {
		assert.Zero(t, run([]string{filepath.Join(t.TempDir(), oplog.OperationsFile)}))
	})
	t.Run("With a malformed log", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), oplog.OperationsFile)
		require.NoError(t, os.WriteFile(path, []byte("not,a,log\n"), 0o644))

		assert.Equal(t, 1, run([]string{path}))
	})
}

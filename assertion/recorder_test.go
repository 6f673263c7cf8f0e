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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	t.Run("With every primitive", func(t *testing.T) {
		recorder := NewRecorder()
		recorder.Reachable("reached", nil)
		recorder.Unreachable("never", Details{"key": "foo1"})
		recorder.Always(true, "holds", nil)
		recorder.Always(false, "broken", Details{"num_nodes_healthy": 2})
		recorder.Sometimes(false, "rarely", nil)

		signals := recorder.Signals()
		require.Len(t, signals, 5)
		assert.Equal(t, Signal{Kind: KindReachable, Message: "reached", Condition: true}, signals[0])
		assert.Equal(t, Signal{Kind: KindUnreachable, Message: "never", Details: Details{"key": "foo1"}}, signals[1])

		assert.Equal(t, 1, recorder.Count(KindReachable))
		assert.Equal(t, 1, recorder.Count(KindUnreachable))
		assert.Equal(t, 2, recorder.Count(KindAlways))
		assert.Equal(t, 1, recorder.Count(KindSometimes))

		violations := recorder.Violations()
		require.Len(t, violations, 2)
		assert.Equal(t, "never", violations[0].Message)
		assert.Equal(t, "broken", violations[1].Message)

		found := recorder.Find(KindAlways, "broken")
		require.Len(t, found, 1)
		assert.Equal(t, Details{"num_nodes_healthy": 2}, found[0].Details)
		assert.Empty(t, recorder.Find(KindAlways, "missing"))
	})
	t.Run("With setup complete", func(t *testing.T) {
		recorder := NewRecorder()
		done, details := recorder.SetupCompleted()
		assert.False(t, done)
		assert.Nil(t, details)

		recorder.SetupComplete(Details{"Message": "ready"})
		done, details = recorder.SetupCompleted()
		assert.True(t, done)
		assert.Equal(t, Details{"Message": "ready"}, details)
	})
	t.Run("With reset", func(t *testing.T) {
		recorder := NewRecorder()
		recorder.Reachable("reached", nil)
		recorder.SetupComplete(nil)
		recorder.Reset()

		assert.Empty(t, recorder.Signals())
		done, _ := recorder.SetupCompleted()
		assert.False(t, done)
	})
	t.Run("With concurrent callers", func(t *testing.T) {
		recorder := NewRecorder()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				recorder.Sometimes(true, "concurrent", nil)
			}()
		}
		wg.Wait()
		assert.Len(t, recorder.Find(KindSometimes, "concurrent"), 10)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "reachable", KindReachable.String())
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "always", KindAlways.String())
	assert.Equal(t, "sometimes", KindSometimes.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

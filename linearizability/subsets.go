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

package linearizability

import (
	"iter"
	"slices"
)

// subsets yields the non-empty subsets of items, smallest first. Each subset is
// a new slice.
func subsets[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for size := 1; size <= len(items); size++ {
			if !combine(items, size, 0, make([]T, 0, size), yield) {
				return
			}
		}
	}
}

func combine[T any](items []T, size, start int, picked []T, yield func([]T) bool) bool {
	if len(picked) == size {
		return yield(slices.Clone(picked))
	}

	for i := start; i <= len(items)-(size-len(picked)); i++ {
		if !combine(items, size, i+1, append(picked, items[i]), yield) {
			return false
		}
	}
	return true
}

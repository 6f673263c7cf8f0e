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

// Package random provides the randomness used by the workload drivers.
//
// In production every draw goes through the harness SDK so that runs can be
// replayed. Tests use a seeded source.
package random

import (
	"math/rand/v2"

	sdkrandom "github.com/antithesishq/antithesis-sdk-go/random"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Source produces uniformly distributed 64-bit values.
type Source interface {
	Uint64() uint64
}

type antithesis struct{}

// Uint64 implements Source.
func (antithesis) Uint64() uint64 {
	return sdkrandom.GetRandom()
}

// NewAntithesis returns a Source backed by the harness SDK.
// Outside the harness the SDK falls back to a pseudo-random generator.
func NewAntithesis() Source {
	return antithesis{}
}

// NewSeeded returns a deterministic Source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed))
}

// Intn returns a value in [0, n). It panics when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int(src.Uint64() % uint64(n))
}

// Choice returns a random element of items. It panics when items is empty.
func Choice[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

// String returns a random alphanumeric string of the given length.
func String(src Source, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = alphanumeric[Intn(src, len(alphanumeric))]
	}
	return string(out)
}

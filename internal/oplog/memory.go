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

package oplog

import (
	"slices"
	"sync"
)

// Memory is a Log kept in memory. It is safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	lastID     int
	operations []Operation
}

var _ Log = (*Memory)(nil)

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// NextClientID implements Log.
func (m *Memory) NextClientID() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	return m.lastID, nil
}

// Append implements Log.
func (m *Memory) Append(operations ...Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, operations...)
	return nil
}

// Operations returns a copy of the recorded operations.
func (m *Memory) Operations() []Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.operations)
}

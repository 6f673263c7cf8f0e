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
	"github.com/antithesishq/antithesis-sdk-go/assert"
	"github.com/antithesishq/antithesis-sdk-go/lifecycle"
)

// Antithesis forwards every signal to the Antithesis SDK.
// Outside of the Antithesis environment the SDK either writes to the file named
// by ANTITHESIS_SDK_LOCAL_OUTPUT or drops the signal.
type Antithesis struct{}

var (
	_ Assertor  = (*Antithesis)(nil)
	_ Lifecycle = (*Antithesis)(nil)
)

// NewAntithesis creates an instance of Antithesis
func NewAntithesis() *Antithesis {
	return &Antithesis{}
}

// Reachable implements Assertor.
func (*Antithesis) Reachable(message string, details Details) {
	assert.Reachable(message, details)
}

// Unreachable implements Assertor.
func (*Antithesis) Unreachable(message string, details Details) {
	assert.Unreachable(message, details)
}

// Always implements Assertor.
func (*Antithesis) Always(condition bool, message string, details Details) {
	assert.Always(condition, message, details)
}

// Sometimes implements Assertor.
func (*Antithesis) Sometimes(condition bool, message string, details Details) {
	assert.Sometimes(condition, message, details)
}

// SetupComplete implements Lifecycle.
func (*Antithesis) SetupComplete(details Details) {
	lifecycle.SetupComplete(details)
}

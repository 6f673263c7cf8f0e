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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertion(t *testing.T) {
	t.Run("With a holding condition", func(t *testing.T) {
		assert.NoError(t, NewAssertion(true, "dialer is required").Validate())
	})
	t.Run("With a failing condition", func(t *testing.T) {
		err := NewAssertion(false, "dialer is required").Validate()
		assert.EqualError(t, err, "dialer is required")
	})
}

func TestEmptyStringValidator(t *testing.T) {
	t.Run("With a value", func(t *testing.T) {
		assert.NoError(t, NewEmptyStringValidator("Key", "foo1").Validate())
	})
	t.Run("With an empty value", func(t *testing.T) {
		assert.EqualError(t, NewEmptyStringValidator("Key", "").Validate(), "the [Key] is required")
	})
	t.Run("With a blank value", func(t *testing.T) {
		assert.EqualError(t, NewEmptyStringValidator("Value", "  ").Validate(), "the [Value] is required")
	})
}

func TestEndpointValidator(t *testing.T) {
	testCases := []struct {
		name     string
		endpoint string
		valid    bool
	}{
		{name: "http endpoint", endpoint: "http://etcd0:2379", valid: true},
		{name: "https endpoint", endpoint: "https://127.0.0.1:2379", valid: true},
		{name: "bare host and port", endpoint: "etcd1:2379", valid: true},
		{name: "empty", endpoint: "", valid: false},
		{name: "unsupported scheme", endpoint: "ftp://etcd0:2379", valid: false},
		{name: "missing port", endpoint: "http://etcd0", valid: false},
		{name: "non numeric port", endpoint: "etcd0:abc", valid: false},
		{name: "port out of range", endpoint: "etcd0:70000", valid: false},
		{name: "missing host", endpoint: ":2379", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewEndpointValidator(tc.endpoint).Validate()
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid endpoint")
		})
	}
}

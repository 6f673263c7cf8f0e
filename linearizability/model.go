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
	"fmt"
	"sort"

	"github.com/anishathalye/porcupine"

	"github.com/tochemey/etcdcheck/internal/oplog"
)

// input is the call of an operation
type input struct {
	put   bool
	key   string
	value string
}

// output is the value returned by a get
type output struct {
	value string
}

// model is a register per key. A missing key reads as the empty string.
var model = porcupine.Model{
	Partition: func(history []porcupine.Operation) [][]porcupine.Operation {
		byKey := make(map[string][]porcupine.Operation)
		for _, op := range history {
			key := op.Input.(input).key
			byKey[key] = append(byKey[key], op)
		}

		keys := make([]string, 0, len(byKey))
		for key := range byKey {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		partitions := make([][]porcupine.Operation, 0, len(keys))
		for _, key := range keys {
			partitions = append(partitions, byKey[key])
		}
		return partitions
	},
	Init: func() any {
		return ""
	},
	Step: func(state, in, out any) (bool, any) {
		call := in.(input)
		if call.put {
			return true, call.value
		}
		return out.(output).value == state.(string), state
	},
	DescribeOperation: func(in, out any) string {
		call := in.(input)
		if call.put {
			return fmt.Sprintf("put('%s', '%s')", call.key, call.value)
		}
		return fmt.Sprintf("get('%s') -> '%s'", call.key, out.(output).value)
	},
}

// toPorcupine converts a recorded operation. A failed put may take effect at any
// time after its call, so it returns at horizon.
func toPorcupine(op oplog.Operation, horizon int64) porcupine.Operation {
	converted := porcupine.Operation{
		ClientId: op.ClientID,
		Call:     op.Start,
		Return:   op.End,
	}

	if op.Kind == oplog.KindPut {
		converted.Input = input{put: true, key: op.Key, value: op.Value}
		converted.Output = output{}
	} else {
		converted.Input = input{key: op.Key}
		converted.Output = output{value: op.Response}
	}

	if !op.Success {
		converted.Return = horizon
	}
	return converted
}

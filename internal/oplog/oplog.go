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

// Package oplog records the key-value calls made by the traffic drivers so that
// their combined history can be checked for linearizability.
//
// Every driver process appends to the same file. A record is one line:
//
//	{client},{kind},{start},{end},{key},{value},{response},{success},{revision}
//
// Times are monotonic nanoseconds shared by every process of the host. Absent
// fields are written as None and the success flag as True or False.
package oplog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind names a recorded call.
type Kind string

const (
	// KindPut is a put
	KindPut Kind = "put"
	// KindGet is a get
	KindGet Kind = "get"

	none  = "None"
	yes   = "True"
	no    = "False"
	width = 9
)

// ErrMalformed is returned when a record cannot be parsed.
var ErrMalformed = errors.New("malformed operation record")

// Operation is one call made against the cluster.
type Operation struct {
	// ClientID identifies the driver run that made the call
	ClientID int
	Kind     Kind
	// Start and End bound the call in monotonic nanoseconds
	Start int64
	End   int64
	Key   string
	// Value is the written value of a put
	Value string
	// Response is the value returned by a get, empty when the key was missing
	Response string
	// Success is false when the call failed and its effect is unknown
	Success bool
	// Revision is free-form revision information, empty when unknown
	Revision string
}

// Log is where drivers record their calls.
type Log interface {
	// NextClientID allocates an identifier for a driver run.
	NextClientID() (int, error)
	// Append records the operations.
	Append(operations ...Operation) error
}

// Write encodes the operations as records.
func Write(w io.Writer, operations ...Operation) error {
	writer := csv.NewWriter(w)
	for _, op := range operations {
		if err := writer.Write(encode(op)); err != nil {
			return fmt.Errorf("failed to write operation of client=%d: %w", op.ClientID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Read decodes every record of r.
func Read(r io.Reader) ([]Operation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = width
	reader.ReuseRecord = true

	var operations []Operation
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return operations, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		op, err := decode(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w at line %d: %w", ErrMalformed, line, err)
		}
		operations = append(operations, op)
	}
}

func encode(op Operation) []string {
	success := no
	if op.Success {
		success = yes
	}
	return []string{
		strconv.Itoa(op.ClientID),
		string(op.Kind),
		strconv.FormatInt(op.Start, 10),
		strconv.FormatInt(op.End, 10),
		op.Key,
		orNone(op.Value),
		orNone(op.Response),
		success,
		orNone(op.Revision),
	}
}

func decode(record []string) (Operation, error) {
	op := Operation{
		Kind:     Kind(record[1]),
		Key:      record[4],
		Value:    fromNone(record[5]),
		Response: fromNone(record[6]),
		Success:  record[7] != no,
		Revision: fromNone(record[8]),
	}

	if op.Kind != KindPut && op.Kind != KindGet {
		return op, fmt.Errorf("unknown kind %q", record[1])
	}

	// an unparsable client falls back to zero
	op.ClientID, _ = strconv.Atoi(record[0])

	var err error
	if op.Start, err = strconv.ParseInt(record[2], 10, 64); err != nil {
		return op, fmt.Errorf("invalid start: %w", err)
	}
	if op.End, err = strconv.ParseInt(record[3], 10, 64); err != nil {
		return op, fmt.Errorf("invalid end: %w", err)
	}
	return op, nil
}

func orNone(value string) string {
	if value == "" {
		return none
	}
	return value
}

func fromNone(value string) string {
	if value == none {
		return ""
	}
	return value
}

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

// Package deletion deletes half of the keys stored in the cluster and checks
// that they are gone when read from another node.
package deletion

import (
	"context"
	"fmt"
	"io"
	"os"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/driver"
	"github.com/tochemey/etcdcheck/internal/random"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

const (
	listedMessage    = "Client got all keys"
	deletedMessage   = "Client deleted a key"
	readMessage      = "Client got a key"
	goneMessage      = "Key was deleted correctly"
	completedMessage = "Completion of a key deleting check"
)

// Summary describes what a run did.
type Summary struct {
	// Listed is the number of keys found in the cluster
	Listed int
	// Deleted holds the keys whose deletion succeeded, in listing order
	Deleted []string
	// Verified is the number of deleted keys read back successfully
	Verified int
	// Resurrected holds the deleted keys that were still found
	Resurrected []string
}

// Driver runs the key deletion check.
type Driver struct {
	name      string
	output    io.Writer
	connector *driver.Connector
}

// NewDriver creates a Driver against the default endpoints reporting to the Antithesis SDK.
func NewDriver(opts ...Option) (*Driver, error) {
	d := &Driver{
		name:   "serial_driver_delete_keys",
		output: os.Stdout,
		connector: &driver.Connector{
			Endpoints: client.DefaultEndpoints(),
			Dialer:    driver.NewDialer(),
			Assertor:  assertion.NewAntithesis(),
			Source:    random.NewAntithesis(),
			Logger:    log.DefaultLogger,
		},
	}

	for _, opt := range opts {
		opt.Apply(d)
	}

	if err := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("Name", d.name)).
		AddAssertion(d.output != nil, "output is required").
		AddValidator(d.connector).
		Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Run lists every key through one node, deletes the first half through another
// and reads the deleted keys back through a third, each node picked at random.
//
// A failed listing ends the run early without error since failures are expected
// under faults. An error is only returned when a node cannot be connected to.
func (x *Driver) Run(ctx context.Context) (*Summary, error) {
	connector := *x.connector
	connector.Logger = x.connector.Logger.With("run_id", uuid.NewString(), "check", x.name)
	logger := connector.Logger
	assertor := connector.Assertor
	summary := new(Summary)

	session, _, err := connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return nil, err
	}

	keys, err := session.Keys(ctx, "")
	assertor.Sometimes(err == nil, listedMessage, assertion.Details{"error": driver.ErrorDetail(err)})
	driver.Close(session, logger)
	if err != nil {
		logger.Warnf("failed to list keys: %v", err)
		x.printf("failed to get all keys: %v", err)
		return summary, nil
	}
	summary.Listed = len(keys)

	half := keys[:len(keys)/2]

	session, _, err = connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return nil, err
	}

	deleted := goset.NewThreadUnsafeSet[string]()
	for _, key := range half {
		_, err := session.Delete(ctx, key)
		assertor.Sometimes(err == nil, deletedMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			logger.Warnf("failed to delete key=%s: %v", key, err)
			continue
		}
		x.printf("successfully deleted key %s", key)
		deleted.Add(key)
		summary.Deleted = append(summary.Deleted, key)
	}
	driver.Close(session, logger)

	session, _, err = connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return nil, err
	}

	for _, key := range half {
		if !deleted.Contains(key) {
			continue
		}

		_, found, err := session.Get(ctx, key)
		assertor.Sometimes(err == nil, readMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			logger.Warnf("failed to get key=%s: %v", key, err)
			continue
		}

		summary.Verified++
		assertor.Always(!found, goneMessage, assertion.Details{"key": key})
		if found {
			logger.Errorf("key=%s is still present after its deletion", key)
			summary.Resurrected = append(summary.Resurrected, key)
		}
	}
	driver.Close(session, logger)

	assertor.Reachable(completedMessage, nil)
	x.printf("completion of a key deleting check")
	logger.Infof("deleted %d/%d keys, %d verified", deleted.Cardinality(), summary.Listed, summary.Verified)
	return summary, nil
}

func (x *Driver) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.output, "Client [%s]: %s\n", x.name, fmt.Sprintf(format, args...))
}

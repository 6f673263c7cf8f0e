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

// Package traffic writes random key/value pairs through one node and reads
// them back through another.
//
// In lease mode part of the pairs is attached to a lease which is revoked once
// the pairs are read back: leased keys must then be gone and the other keys
// must remain.
package traffic

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/driver"
	"github.com/tochemey/etcdcheck/internal/oplog"
	"github.com/tochemey/etcdcheck/internal/random"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

const (
	// MaxRequests is the upper bound of puts made by a run
	MaxRequests = 100
	// StringLength is the length of the generated keys and values
	StringLength = 8
	// LeaseTTL is the time to live in seconds of the lease granted in lease mode.
	// It is long enough for the lease to be revoked before it expires.
	LeaseTTL = 31536000

	putMessage        = "Client can make successful put requests"
	getMessage        = "Client can make successful get requests"
	matchMessage      = "Key value match"
	consistentMessage = "Database key values stay consistent"

	grantMessage     = "Client can grant a lease"
	revokeMessage    = "Client can revoke a lease"
	removedMessage   = "Key with revoked license was not in the database"
	remainedMessage  = "Key without revoked license remained in the database"
	revokedMessage   = "Keys with revoked leases are removed"
	unrevokedMessage = "Keys with unrevoked leases persist"
)

// KeyValue is a pair successfully written to the cluster.
type KeyValue struct {
	Key   string
	Value string
	// Leased is true when the pair was attached to the lease
	Leased bool
}

// Mismatch is the first pair read back with a different value.
// Found is false when the key was missing.
type Mismatch struct {
	Key      string
	Expected string
	Observed string
	Found    bool
}

// Summary describes what a run did.
type Summary struct {
	// ClientID identifies the run in the operations log, zero when nothing is recorded
	ClientID int
	// Requests is the number of puts attempted
	Requests int
	// Written holds the pairs whose put succeeded
	Written []KeyValue
	// Matched is the number of pairs read back unchanged
	Matched int
	// Mismatch is set when a pair was read back with another value
	Mismatch *Mismatch
	// Recorded is the number of operations appended to the operations log
	Recorded int

	// Lease, LeaseGranted and LeaseRevoked are only set in lease mode
	Lease        client.LeaseID
	LeaseGranted bool
	LeaseRevoked bool
	// Persisted is the first leased key still found after the revocation
	Persisted string
	// Removed is the first key without lease missing after the revocation
	Removed string
}

// Consistent reports whether every pair read back matched
func (s *Summary) Consistent() bool {
	return s.Mismatch == nil
}

// LeasesHonored reports whether the revocation removed exactly the leased keys
func (s *Summary) LeasesHonored() bool {
	return s.Persisted == "" && s.Removed == ""
}

// Driver runs the traffic check.
type Driver struct {
	name      string
	output    io.Writer
	leases    bool
	history   oplog.Log
	clock     func() int64
	connector *driver.Connector
}

// NewDriver creates a Driver against the default endpoints reporting to the Antithesis SDK.
// Nothing is recorded unless an operations log is set.
func NewDriver(opts ...Option) (*Driver, error) {
	d := &Driver{
		name:   "parallel_driver_generate_traffic",
		output: os.Stdout,
		clock:  oplog.Now,
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
		AddAssertion(d.clock != nil, "clock is required").
		AddValidator(d.connector).
		Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Run makes between 1 and MaxRequests puts of random pairs through a random node,
// then reads the written pairs back through another random node and stops at the
// first mismatch. In lease mode it then revokes the lease and checks which keys
// remain. Failed calls are expected under faults and never fail the run.
//
// An error is returned when a node cannot be connected to or when no client id
// can be allocated in the operations log.
func (x *Driver) Run(ctx context.Context) (*Summary, error) {
	connector := *x.connector
	connector.Logger = x.connector.Logger.With("run_id", uuid.NewString(), "check", x.name)

	recorder := &callRecorder{clock: x.clock}
	if x.history != nil {
		id, err := x.history.NextClientID()
		if err != nil {
			return nil, err
		}
		recorder.clientID = id
	}

	summary, err := x.generate(ctx, &connector, recorder)
	if err != nil {
		return nil, err
	}
	summary.ClientID = recorder.clientID

	if err := x.validate(ctx, &connector, summary, recorder); err != nil {
		return nil, err
	}

	details := assertion.Details{"mismatch": nil}
	if summary.Mismatch != nil {
		details["mismatch"] = []string{summary.Mismatch.Expected, summary.Mismatch.Observed}
	}
	connector.Assertor.Always(summary.Consistent(), consistentMessage, details)

	// calls after the revocation are not recorded since the history does not model leases
	x.record(&connector, summary, recorder)

	if x.leases && summary.LeaseGranted {
		if err := x.checkLeases(ctx, &connector, summary); err != nil {
			return nil, err
		}
	}

	connector.Logger.Infof("wrote %d/%d pairs, %d matched", len(summary.Written), summary.Requests, summary.Matched)
	return summary, nil
}

func (x *Driver) generate(ctx context.Context, connector *driver.Connector, recorder *callRecorder) (*Summary, error) {
	session, _, err := connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return nil, err
	}
	defer driver.Close(session, connector.Logger)

	summary := &Summary{Requests: 1 + random.Intn(connector.Source, MaxRequests)}

	var lease client.LeaseID
	if x.leases {
		lease, err = session.Grant(ctx, LeaseTTL)
		connector.Assertor.Sometimes(err == nil, grantMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			x.printf("failed to grant a lease, writing without lease: %v", err)
		}
		summary.LeaseGranted = err == nil
	}

	for range summary.Requests {
		key := random.String(connector.Source, StringLength)
		value := random.String(connector.Source, StringLength)
		leased := summary.LeaseGranted && random.Intn(connector.Source, 2) == 1

		start := recorder.clock()
		if leased {
			err = session.PutWithLease(ctx, key, value, lease)
		} else {
			err = session.Put(ctx, key, value)
		}
		recorder.put(start, key, value, err)

		connector.Assertor.Sometimes(err == nil, putMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			x.printf("unsuccessful put with key '%s', value '%s', and error '%v'", key, value, err)
			continue
		}

		summary.Written = append(summary.Written, KeyValue{Key: key, Value: value, Leased: leased})
		if x.leases {
			x.printf("successful put with key '%s' and value '%s' (has_lease: '%t')", key, value, leased)
			continue
		}
		x.printf("successful put with key '%s' and value '%s'", key, value)
	}

	summary.Lease = lease
	x.printf("traffic simulated!")
	return summary, nil
}

func (x *Driver) validate(ctx context.Context, connector *driver.Connector, summary *Summary, recorder *callRecorder) error {
	session, _, err := connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return err
	}
	defer driver.Close(session, connector.Logger)

	for _, kv := range summary.Written {
		start := recorder.clock()
		observed, found, err := session.Get(ctx, kv.Key)
		recorder.get(start, kv.Key, observed, err)

		connector.Assertor.Sometimes(err == nil, getMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			x.printf("unsuccessful get with key '%s', and error '%v'", kv.Key, err)
			continue
		}

		if !found || observed != kv.Value {
			x.printf("a key value mismatch! This shouldn't happen.")
			connector.Logger.Errorf("key=%s read back %q (found=%t) instead of %q", kv.Key, observed, found, kv.Value)
			summary.Mismatch = &Mismatch{Key: kv.Key, Expected: kv.Value, Observed: observed, Found: found}
			return nil
		}

		summary.Matched++
		x.printf("expected value '%s' matched the retrieved value '%s' for key '%s'", kv.Value, observed, kv.Key)
		connector.Assertor.Reachable(matchMessage, assertion.Details{
			"key":            kv.Key,
			"value":          kv.Value,
			"database_value": observed,
		})
	}

	x.printf("validation ok!")
	return nil
}

// checkLeases revokes the lease through a random node, then checks the leased
// keys and the other keys through two more.
func (x *Driver) checkLeases(ctx context.Context, connector *driver.Connector, summary *Summary) error {
	session, _, err := connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return err
	}

	err = session.Revoke(ctx, summary.Lease)
	driver.Close(session, connector.Logger)
	connector.Assertor.Sometimes(err == nil, revokeMessage, assertion.Details{"error": driver.ErrorDetail(err)})
	if err != nil {
		// the keys may or may not be gone, nothing can be checked
		x.printf("failed to revoke the lease: %v", err)
		return nil
	}
	summary.LeaseRevoked = true

	persisted, err := x.scan(ctx, connector, summary, true)
	if err != nil {
		return err
	}
	summary.Persisted = persisted
	connector.Assertor.Always(persisted == "", revokedMessage, assertion.Details{"persisted keys": keyDetail(persisted)})

	removed, err := x.scan(ctx, connector, summary, false)
	if err != nil {
		return err
	}
	summary.Removed = removed
	connector.Assertor.Always(removed == "", unrevokedMessage, assertion.Details{"removed keys": keyDetail(removed)})
	return nil
}

// scan reads back the written keys with the given lease state and returns the
// first one in the wrong state: found when leased, missing otherwise.
func (x *Driver) scan(ctx context.Context, connector *driver.Connector, summary *Summary, leased bool) (string, error) {
	session, _, err := connector.Connect(ctx)
	if err != nil {
		x.printf("failed to connect: %v", err)
		return "", err
	}
	defer driver.Close(session, connector.Logger)

	for _, kv := range summary.Written {
		if kv.Leased != leased {
			continue
		}

		_, found, err := session.Get(ctx, kv.Key)
		connector.Assertor.Sometimes(err == nil, getMessage, assertion.Details{"error": driver.ErrorDetail(err)})
		if err != nil {
			x.printf("unsuccessful get with key '%s', and error '%v'", kv.Key, err)
			continue
		}

		if leased {
			if found {
				x.printf("the key has persisted despite being associated with a revoked lease!")
				connector.Logger.Errorf("key=%s is still present after the revocation of lease=%x", kv.Key, summary.Lease)
				return kv.Key, nil
			}
			x.printf("successful key %s was not in the database", kv.Key)
			connector.Assertor.Reachable(removedMessage, assertion.Details{"key": kv.Key})
			continue
		}

		if !found {
			x.printf("the key no longer exists despite not being associated with a revoked lease!")
			connector.Logger.Errorf("key=%s is missing after the revocation of lease=%x", kv.Key, summary.Lease)
			return kv.Key, nil
		}
		x.printf("successful key '%s' remained in the database", kv.Key)
		connector.Assertor.Reachable(remainedMessage, assertion.Details{"key": kv.Key})
	}

	if leased {
		x.printf("validation of keys with revoked lease ok!")
	} else {
		x.printf("validation of keys without lease ok!")
	}
	return "", nil
}

// record appends the operations of the run to the operations log. A failure is
// logged and does not fail the run.
func (x *Driver) record(connector *driver.Connector, summary *Summary, recorder *callRecorder) {
	if x.history == nil {
		return
	}

	if err := x.history.Append(recorder.operations...); err != nil {
		connector.Logger.Errorf("failed to record the operations of client=%d: %v", recorder.clientID, err)
		x.printf("failed to record operations: %v", err)
		return
	}
	summary.Recorded = len(recorder.operations)
}

func (x *Driver) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(x.output, "Client [%s]: %s\n", x.name, fmt.Sprintf(format, args...))
}

func keyDetail(key string) any {
	if key == "" {
		return nil
	}
	return key
}

// callRecorder collects the calls of one run.
type callRecorder struct {
	clientID   int
	clock      func() int64
	operations []oplog.Operation
}

func (r *callRecorder) put(start int64, key, value string, err error) {
	r.operations = append(r.operations, oplog.Operation{
		ClientID: r.clientID,
		Kind:     oplog.KindPut,
		Start:    start,
		End:      r.clock(),
		Key:      key,
		Value:    value,
		Success:  err == nil,
	})
}

// get only keeps successful reads, a failed read tells nothing about the state.
func (r *callRecorder) get(start int64, key, response string, err error) {
	end := r.clock()
	if err != nil {
		return
	}
	r.operations = append(r.operations, oplog.Operation{
		ClientID: r.clientID,
		Kind:     oplog.KindGet,
		Start:    start,
		End:      end,
		Key:      key,
		Response: response,
		Success:  true,
	})
}

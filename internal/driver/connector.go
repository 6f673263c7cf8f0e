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

// Package driver holds what the workload drivers share: reaching a random node.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/tochemey/etcdcheck/assertion"
	"github.com/tochemey/etcdcheck/client"
	"github.com/tochemey/etcdcheck/internal/random"
	"github.com/tochemey/etcdcheck/internal/validation"
	"github.com/tochemey/etcdcheck/log"
)

// ErrConnect is returned when no session could be opened against the chosen node.
var ErrConnect = errors.New("failed to connect to an etcd host")

const connectFailedMessage = "Client failed to connect to an etcd host"

// NewDialer returns the dialer of the drivers. It connects lazily, like the
// etcd client does by default, so a node down during fault injection only
// shows up as failing calls.
func NewDialer(opts ...client.Option) *client.EtcdDialer {
	return client.NewDialer(append([]client.Option{client.WithLazyConnect()}, opts...)...)
}

// Connector dials a node picked at random among Endpoints.
type Connector struct {
	Endpoints []string
	Dialer    client.Dialer
	Assertor  assertion.Assertor
	Source    random.Source
	Logger    log.Logger
}

var _ validation.Validator = (*Connector)(nil)

// Validate implements validation.Validator.
func (c *Connector) Validate() error {
	return validation.New(validation.AllErrors()).
		AddEndpoints(c.Endpoints, client.ErrNoEndpoints.Error()).
		AddAssertion(c.Dialer != nil, "dialer is required").
		AddAssertion(c.Assertor != nil, "assertor is required").
		AddAssertion(c.Source != nil, "random source is required").
		AddAssertion(c.Logger != nil, "logger is required").
		Validate()
}

// Connect opens a session against a random endpoint and returns it with the endpoint.
// A failure is reported as an Unreachable signal since creating a client must
// always succeed. With a lazy dialer that only happens on invalid settings.
func (c *Connector) Connect(ctx context.Context) (client.Session, string, error) {
	endpoint := random.Choice(c.Source, c.Endpoints)
	session, err := c.Dialer.Dial(ctx, endpoint)
	if err != nil {
		c.Assertor.Unreachable(connectFailedMessage, assertion.Details{
			"host":  endpoint,
			"error": err.Error(),
		})
		return nil, endpoint, fmt.Errorf("%w %s: %w", ErrConnect, endpoint, err)
	}

	c.Logger.Debugf("connected to %s", endpoint)
	return session, endpoint, nil
}

// ErrorDetail returns the message of err, or nil when err is nil.
func ErrorDetail(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

// Close closes the session and logs a failure.
func Close(session client.Session, logger log.Logger) {
	if err := session.Close(); err != nil {
		logger.Warnf("failed to close session: %v", err)
	}
}

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

// Package validation checks the configuration of the drivers before they touch
// the cluster. A Chain collects validators and either stops at the first failure
// or reports all of them as one multierr error.
package validation

import (
	"go.uber.org/multierr"
)

// Validator is implemented by anything that can check itself
type Validator interface {
	Validate() error
}

// Chain is an ordered list of validators.
type Chain struct {
	failFast   bool
	validators []Validator
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// New creates an empty Chain. It reports every failure unless FailFast is given.
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// FailFast makes Validate return the first failure.
func FailFast() ChainOption {
	return func(c *Chain) { c.failFast = true }
}

// AllErrors makes Validate return every failure.
func AllErrors() ChainOption {
	return func(c *Chain) { c.failFast = false }
}

// AddValidator appends v.
func (c *Chain) AddValidator(v Validator) *Chain {
	c.validators = append(c.validators, v)
	return c
}

// AddAssertion appends a check failing with message when holds is false.
func (c *Chain) AddAssertion(holds bool, message string) *Chain {
	return c.AddValidator(NewAssertion(holds, message))
}

// AddEndpoints appends a check that endpoints is not empty, failing with missing,
// and an EndpointValidator per endpoint.
func (c *Chain) AddEndpoints(endpoints []string, missing string) *Chain {
	c.AddAssertion(len(endpoints) > 0, missing)
	for _, endpoint := range endpoints {
		c.AddValidator(NewEndpointValidator(endpoint))
	}
	return c
}

// Validate runs the validators in order. It can be called more than once.
func (c *Chain) Validate() error {
	var err error
	for _, v := range c.validators {
		violation := v.Validate()
		if violation == nil {
			continue
		}
		if c.failFast {
			return violation
		}
		err = multierr.Append(err, violation)
	}
	return err
}

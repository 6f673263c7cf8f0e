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
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const endpointErrFmt = "invalid endpoint=(%s): %w"

// EndpointValidator checks an etcd client endpoint.
// Both "http://host:port" and bare "host:port" forms are accepted, like clientv3 does.
type EndpointValidator struct {
	endpoint string
}

var _ Validator = (*EndpointValidator)(nil)

// NewEndpointValidator creates an instance of EndpointValidator
func NewEndpointValidator(endpoint string) *EndpointValidator {
	return &EndpointValidator{endpoint: endpoint}
}

// Validate implements Validator.
func (v *EndpointValidator) Validate() error {
	hostPort := strings.TrimSpace(v.endpoint)
	if hostPort == "" {
		return fmt.Errorf(endpointErrFmt, v.endpoint, errors.New("endpoint is empty"))
	}

	if strings.Contains(hostPort, "://") {
		parsed, err := url.Parse(hostPort)
		if err != nil {
			return fmt.Errorf(endpointErrFmt, v.endpoint, err)
		}

		switch parsed.Scheme {
		case "http", "https":
		default:
			return fmt.Errorf(endpointErrFmt, v.endpoint, fmt.Errorf("unsupported scheme %q", parsed.Scheme))
		}
		hostPort = parsed.Host
	}

	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf(endpointErrFmt, v.endpoint, err)
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf(endpointErrFmt, v.endpoint, err)
	}

	if host == "" || portNum <= 0 || portNum > 65535 {
		return fmt.Errorf(endpointErrFmt, v.endpoint, errors.New("invalid host or port"))
	}
	return nil
}

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

package healthcheck

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/etcdcheck/healthcheck"

type metrics struct {
	checks   metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	m := new(metrics)
	var err error
	if m.checks, err = meter.Int64Counter(
		"healthcheck_node_checks",
		metric.WithDescription("Total number of node round trips by status"),
	); err != nil {
		return nil, fmt.Errorf("failed to create checks instrument: %w", err)
	}

	if m.duration, err = meter.Float64Histogram(
		"healthcheck_round_trip_duration",
		metric.WithDescription("Duration of a node round trip"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration instrument: %w", err)
	}
	return m, nil
}

func (m *metrics) record(ctx context.Context, result *Result) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", result.Node.Endpoint),
		attribute.String("status", result.Status.String()),
	)
	m.checks.Add(ctx, 1, attrs)
	m.duration.Record(ctx, result.Duration.Seconds(), attrs)
}

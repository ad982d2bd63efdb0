/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package telemetry

import (
	"context"
	"sync"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	storeMetrics     *StoreMetrics
	storeMetricsOnce sync.Once
)

// StoreMetrics counts persistence operations and their latency.
// A nil *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	OperationTotal    *Counter
	ErrorTotal        *Counter
	OperationDuration *Histogram
	AuditFindings     *Counter
}

func NewStoreMetrics(meter otelmetric.Meter) (*StoreMetrics, error) {
	operationTotal, err := NewCounter(meter, MetricOptions{
		Name:        BuildMetricName("store_operation", MetricNameSuffixTotal),
		Description: "total number of store operations by operation and status",
		Unit:        "1",
	})
	if err != nil {
		return nil, err
	}

	errorTotal, err := NewCounter(meter, MetricOptions{
		Name: BuildMetricName("store_error", MetricNameSuffixTotal),
		Description: "total number of failed store operations. " +
			"error% = edudash_store_error_total / edudash_store_operation_total",
		Unit: "1",
	})
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, MetricOptions{
		Name:        BuildMetricName("store_operation", MetricNameSuffixDuration),
		Description: "latency of store operations including slot reads and writes",
		Unit:        "s",
	})
	if err != nil {
		return nil, err
	}

	findings, err := NewCounter(meter, MetricOptions{
		Name:        BuildMetricName("audit_finding", MetricNameSuffixTotal),
		Description: "referential problems reported by the enrollment audit job",
		Unit:        "1",
	})
	if err != nil {
		return nil, err
	}

	return &StoreMetrics{
		OperationTotal:    operationTotal,
		ErrorTotal:        errorTotal,
		OperationDuration: duration,
		AuditFindings:     findings,
	}, nil
}

// InitStoreMetrics creates the process wide StoreMetrics once
func InitStoreMetrics(meter otelmetric.Meter) error {
	var initErr error
	storeMetricsOnce.Do(func() {
		storeMetrics, initErr = NewStoreMetrics(meter)
	})
	return initErr
}

func GetStoreMetrics() *StoreMetrics {
	return storeMetrics
}

// RecordOperation counts one operation started at start, and its failure if err is set
func (sm *StoreMetrics) RecordOperation(ctx context.Context, operation string, start time.Time, err error) {
	if sm == nil {
		return
	}
	sm.OperationTotal.Inc(ctx, WithOperation(operation), WithStatus(StatusOf(err)))
	sm.OperationDuration.Record(ctx, time.Since(start).Seconds(), WithOperation(operation))
	if err != nil {
		sm.ErrorTotal.Inc(ctx, WithOperation(operation))
	}
}

// RecordAuditFindings adds count problems of one kind found by job
func (sm *StoreMetrics) RecordAuditFindings(ctx context.Context, job, finding string, count int) {
	if sm == nil || count == 0 {
		return
	}
	sm.AuditFindings.Add(ctx, int64(count), WithJob(job), WithFinding(finding))
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OperationMetrics holds management-call metrics following OTEL semantic
// conventions.
type OperationMetrics struct {
	operations        metric.Int64Counter
	operationDuration metric.Float64Histogram
	guardDenials      metric.Int64Counter
}

// NewOperationMetrics creates the meters for management operations.
func NewOperationMetrics() (*OperationMetrics, error) {
	meter := otel.Meter("ohjain.manager")

	operations, err := meter.Int64Counter(
		"ohjain.operations",
		metric.WithDescription("Number of management operations executed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		"ohjain.operation.duration",
		metric.WithDescription("Duration of management operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	guardDenials, err := meter.Int64Counter(
		"ohjain.guard.denials",
		metric.WithDescription("Number of operations denied by the guard policy"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	return &OperationMetrics{
		operations:        operations,
		operationDuration: operationDuration,
		guardDenials:      guardDenials,
	}, nil
}

// RecordOperation records one management call with its outcome.
func (m *OperationMetrics) RecordOperation(ctx context.Context, action, region string, success bool, durationSeconds float64) {
	status := "ok"
	if !success {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("cloud.region", region),
		attribute.String("status", status),
	)
	m.operations.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, durationSeconds, attrs)
}

// RecordGuardDenial records a policy denial.
func (m *OperationMetrics) RecordGuardDenial(ctx context.Context, action, region string) {
	m.guardDenials.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("cloud.region", region),
		),
	)
}

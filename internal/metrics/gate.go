package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GateMetrics defines the interface for recording pre-execution gate decisions:
// validator verdicts and rate governor admissions.
type GateMetrics interface {
	// RecordVerdict records one validator decision. reason is the rejection
	// reason class, empty for accepted queries. Reasons come from a fixed
	// table, so label cardinality stays bounded.
	RecordVerdict(ctx context.Context, accepted bool, reason string)

	// RecordAdmission records one rate governor decision.
	RecordAdmission(ctx context.Context, admitted bool)
}

// gateMetrics implements GateMetrics using OpenTelemetry metrics.
type gateMetrics struct {
	verdictCounter   metric.Int64Counter
	admissionCounter metric.Int64Counter
}

// NewGateMetrics creates a new GateMetrics implementation using the provided meter provider.
func NewGateMetrics(meterProvider metric.MeterProvider, namespace string) (GateMetrics, error) {
	meter := meterProvider.Meter(namespace)

	verdictCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_validator_verdicts_total", namespace),
		metric.WithDescription("Total number of query validator verdicts"),
		metric.WithUnit("{verdict}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create verdict counter: %w", err)
	}

	admissionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_rate_admissions_total", namespace),
		metric.WithDescription("Total number of rate governor admission decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admission counter: %w", err)
	}

	return &gateMetrics{
		verdictCounter:   verdictCounter,
		admissionCounter: admissionCounter,
	}, nil
}

// RecordVerdict increments the verdict counter with outcome and reason labels.
func (g *gateMetrics) RecordVerdict(ctx context.Context, accepted bool, reason string) {
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	g.verdictCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("reason", reason),
		),
	)
}

// RecordAdmission increments the admission counter with the outcome label.
func (g *gateMetrics) RecordAdmission(ctx context.Context, admitted bool) {
	outcome := "admitted"
	if !admitted {
		outcome = "rejected"
	}
	g.admissionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
		),
	)
}

// NoOpGateMetrics is a no-op implementation of GateMetrics for when metrics are disabled.
type NoOpGateMetrics struct{}

// NewNoOpGateMetrics creates a no-op GateMetrics implementation.
func NewNoOpGateMetrics() GateMetrics {
	return &NoOpGateMetrics{}
}

// RecordVerdict does nothing when metrics are disabled.
func (n *NoOpGateMetrics) RecordVerdict(ctx context.Context, accepted bool, reason string) {
	// No-op
}

// RecordAdmission does nothing when metrics are disabled.
func (n *NoOpGateMetrics) RecordAdmission(ctx context.Context, admitted bool) {
	// No-op
}

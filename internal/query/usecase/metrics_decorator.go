package usecase

import (
	"context"
	"time"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	"github.com/queryware/sqlgate/internal/metrics"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// queryGatewayWithMetrics decorates QueryGateway with metrics instrumentation.
type queryGatewayWithMetrics struct {
	next    QueryGateway
	metrics metrics.BusinessMetrics
}

// NewQueryGatewayWithMetrics wraps a QueryGateway with metrics recording.
func NewQueryGatewayWithMetrics(gateway QueryGateway, m metrics.BusinessMetrics) QueryGateway {
	return &queryGatewayWithMetrics{
		next:    gateway,
		metrics: m,
	}
}

// Execute records metrics for free-text query executions.
func (q *queryGatewayWithMetrics) Execute(
	ctx context.Context,
	principal *authDomain.Principal,
	sqlText string,
	params map[string]any,
) (*Execution, error) {
	start := time.Now()
	execution, err := q.next.Execute(ctx, principal, sqlText, params)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "query", "query_execute", status)
	q.metrics.RecordDuration(ctx, "query", "query_execute", time.Since(start), status)

	return execution, err
}

// ExecuteTemplate records metrics for template executions.
func (q *queryGatewayWithMetrics) ExecuteTemplate(
	ctx context.Context,
	principal *authDomain.Principal,
	templateID string,
	values map[string]any,
) (*Execution, error) {
	start := time.Now()
	execution, err := q.next.ExecuteTemplate(ctx, principal, templateID, values)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "query", "template_execute", status)
	q.metrics.RecordDuration(ctx, "query", "template_execute", time.Since(start), status)

	return execution, err
}

// ListTemplates passes through without instrumentation.
func (q *queryGatewayWithMetrics) ListTemplates() []*domain.Template {
	return q.next.ListTemplates()
}

// History passes through without instrumentation.
func (q *queryGatewayWithMetrics) History(principal *authDomain.Principal) []domain.ExecutionRecord {
	return q.next.History(principal)
}

// ListDatasets records metrics for catalog listings.
func (q *queryGatewayWithMetrics) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	start := time.Now()
	datasets, err := q.next.ListDatasets(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "query", "datasets_list", status)
	q.metrics.RecordDuration(ctx, "query", "datasets_list", time.Since(start), status)

	return datasets, err
}

// GetSchema records metrics for schema lookups.
func (q *queryGatewayWithMetrics) GetSchema(ctx context.Context, table string) ([]domain.Column, error) {
	start := time.Now()
	columns, err := q.next.GetSchema(ctx, table)

	status := "success"
	if err != nil {
		status = "error"
	}

	q.metrics.RecordOperation(ctx, "query", "schema_get", status)
	q.metrics.RecordDuration(ctx, "query", "schema_get", time.Since(start), status)

	return columns, err
}

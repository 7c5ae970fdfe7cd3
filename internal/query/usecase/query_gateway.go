package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
	"github.com/queryware/sqlgate/internal/query/repository"
	"github.com/queryware/sqlgate/internal/query/service"
	"github.com/queryware/sqlgate/internal/query/validator"
)

// queryGateway implements the QueryGateway interface.
type queryGateway struct {
	validator *validator.Validator
	executor  Executor
	templates TemplateStore
	schema    SchemaRepository
	history   *History
}

// NewQueryGateway creates a new QueryGateway instance.
func NewQueryGateway(
	v *validator.Validator,
	executor Executor,
	templates TemplateStore,
	schema SchemaRepository,
	history *History,
) QueryGateway {
	return &queryGateway{
		validator: v,
		executor:  executor,
		templates: templates,
		schema:    schema,
		history:   history,
	}
}

// Execute validates free-text SQL and runs it. Validator rejections are
// terminal and never retried; they still cost the caller rate quota, which
// was consumed at admission.
func (q *queryGateway) Execute(
	ctx context.Context,
	principal *authDomain.Principal,
	sqlText string,
	params map[string]any,
) (*Execution, error) {
	verdict := q.validator.Validate(sqlText)
	if !verdict.Accepted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsafeQuery, verdict.Reason)
	}

	info := validator.Inspect(sqlText)
	return q.run(ctx, principal, sqlText, "", params, &info)
}

// ExecuteTemplate binds typed values into a registered template and runs it.
// Templates are pre-approved, so the free-text validator is bypassed.
func (q *queryGateway) ExecuteTemplate(
	ctx context.Context,
	principal *authDomain.Principal,
	templateID string,
	values map[string]any,
) (*Execution, error) {
	template, err := q.templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	bound, err := service.BindValues(template, values)
	if err != nil {
		return nil, err
	}

	return q.run(ctx, principal, template.SQL, template.ID, bound, nil)
}

// run executes the statement, retrying once on a transient storage failure,
// and records the outcome in the history ring either way.
func (q *queryGateway) run(
	ctx context.Context,
	principal *authDomain.Principal,
	sqlText string,
	templateID string,
	params map[string]any,
	info *domain.QueryInfo,
) (*Execution, error) {
	start := time.Now()
	result, err := q.executor.Execute(ctx, sqlText, params)
	if err != nil && repository.IsTransient(err) && ctx.Err() == nil {
		result, err = q.executor.Execute(ctx, sqlText, params)
	}

	record := domain.ExecutionRecord{
		ID:         uuid.Must(uuid.NewV7()),
		Identity:   principal.Identity,
		SQL:        sqlText,
		TemplateID: templateID,
		Duration:   time.Since(start),
		ExecutedAt: start.UTC(),
		Succeeded:  err == nil,
	}
	if result != nil {
		record.RowCount = result.RowCount
	}
	q.history.Add(record)

	if err != nil {
		return nil, err
	}
	return &Execution{Result: result, Info: info, Record: record}, nil
}

// ListTemplates returns the registered templates.
func (q *queryGateway) ListTemplates() []*domain.Template {
	return q.templates.List()
}

// History returns the principal's recent executions, newest first.
func (q *queryGateway) History(principal *authDomain.Principal) []domain.ExecutionRecord {
	return q.history.List(principal.Identity)
}

// ListDatasets returns the queryable tables.
func (q *queryGateway) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	return q.schema.ListDatasets(ctx)
}

// GetSchema returns the column metadata for one table.
func (q *queryGateway) GetSchema(ctx context.Context, table string) ([]domain.Column, error) {
	return q.schema.GetSchema(ctx, table)
}

// Package usecase implements business logic orchestration for query handling.
// The gateway chains validation, execution and history recording; capability
// and rate checks happen in HTTP middleware before a request reaches it.
package usecase

import (
	"context"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// Executor defines the interface for running validated statements against storage.
type Executor interface {
	Execute(ctx context.Context, sqlText string, params map[string]any) (*domain.Result, error)
}

// SchemaRepository defines the interface for catalog introspection.
type SchemaRepository interface {
	ListDatasets(ctx context.Context) ([]domain.Dataset, error)
	GetSchema(ctx context.Context, table string) ([]domain.Column, error)
}

// TemplateStore defines the interface for template lookup.
type TemplateStore interface {
	Get(id string) (*domain.Template, error)
	List() []*domain.Template
}

// Execution bundles the result of one accepted query run.
type Execution struct {
	Result *domain.Result
	Info   *domain.QueryInfo
	Record domain.ExecutionRecord
}

// QueryGateway defines the interface for query handling business logic.
type QueryGateway interface {
	// Execute validates free-text SQL and runs it on behalf of the principal.
	Execute(ctx context.Context, principal *authDomain.Principal, sqlText string, params map[string]any) (*Execution, error)
	// ExecuteTemplate binds typed values into a registered template and runs it.
	ExecuteTemplate(ctx context.Context, principal *authDomain.Principal, templateID string, values map[string]any) (*Execution, error)
	// ListTemplates returns the registered templates.
	ListTemplates() []*domain.Template
	// History returns the principal's recent executions, newest first.
	History(principal *authDomain.Principal) []domain.ExecutionRecord
	// ListDatasets returns the queryable tables.
	ListDatasets(ctx context.Context) ([]domain.Dataset, error)
	// GetSchema returns the column metadata for one table.
	GetSchema(ctx context.Context, table string) ([]domain.Column, error)
}

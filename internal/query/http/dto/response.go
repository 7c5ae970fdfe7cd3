// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/queryware/sqlgate/internal/query/domain"
	"github.com/queryware/sqlgate/internal/query/usecase"
)

// QueryResponse contains the rows and metadata of one query execution.
type QueryResponse struct {
	ExecutionID string            `json:"execution_id"`
	Columns     []string          `json:"columns"`
	Rows        [][]any           `json:"rows"`
	RowCount    int               `json:"row_count"`
	Truncated   bool              `json:"truncated"`
	Duration    string            `json:"duration"`
	Info        *domain.QueryInfo `json:"query_info,omitempty"`
}

// MapExecutionToResponse converts a gateway execution to an API response.
func MapExecutionToResponse(execution *usecase.Execution) QueryResponse {
	return QueryResponse{
		ExecutionID: execution.Record.ID.String(),
		Columns:     execution.Result.Columns,
		Rows:        execution.Result.Rows,
		RowCount:    execution.Result.RowCount,
		Truncated:   execution.Result.Truncated,
		Duration:    execution.Record.Duration.String(),
		Info:        execution.Info,
	}
}

// TemplateResponse describes a registered template. SQL bodies are not
// exposed, only identifiers and parameter schemas.
type TemplateResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Params      []domain.ParamSpec `json:"params"`
}

// MapTemplatesToListResponse converts domain templates to a list API response.
func MapTemplatesToListResponse(templates []*domain.Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		params := template.Params
		if params == nil {
			params = []domain.ParamSpec{}
		}
		out = append(out, TemplateResponse{
			ID:          template.ID,
			Name:        template.Name,
			Description: template.Description,
			Params:      params,
		})
	}
	return out
}

// HistoryEntryResponse represents one execution in the caller's history.
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	SQL        string    `json:"sql"`
	TemplateID string    `json:"template_id,omitempty"`
	RowCount   int       `json:"row_count"`
	Duration   string    `json:"duration"`
	ExecutedAt time.Time `json:"executed_at"`
	Succeeded  bool      `json:"succeeded"`
}

// MapRecordsToHistoryResponse converts execution records to an API response.
func MapRecordsToHistoryResponse(records []domain.ExecutionRecord) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(records))
	for _, record := range records {
		out = append(out, HistoryEntryResponse{
			ID:         record.ID.String(),
			SQL:        record.SQL,
			TemplateID: record.TemplateID,
			RowCount:   record.RowCount,
			Duration:   record.Duration.String(),
			ExecutedAt: record.ExecutedAt,
			Succeeded:  record.Succeeded,
		})
	}
	return out
}

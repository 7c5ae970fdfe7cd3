// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/queryware/sqlgate/internal/validation"
)

// ExecuteQueryRequest contains a free-text SQL query and its named parameters.
type ExecuteQueryRequest struct {
	SQL    string         `json:"sql"`
	Params map[string]any `json:"params"`
}

// Validate checks if the execute query request is valid. The SQL text itself
// is judged by the query validator, not here.
func (r *ExecuteQueryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SQL,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ExecuteTemplateRequest contains the values for a template execution. The
// template ID comes from the URL path.
type ExecuteTemplateRequest struct {
	Params map[string]any `json:"params"`
}

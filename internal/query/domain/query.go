// Package domain defines the core domain models for SQL query validation and
// execution. Free-text queries pass through a deny-by-default validator before
// reaching storage; templates are pre-approved statements that bind typed
// parameters and bypass free-text validation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the outcome of validating one SQL text.
type Verdict struct {
	// Accepted reports whether the query may be executed.
	Accepted bool
	// Reason describes why the query was rejected (empty when accepted).
	Reason string
	// Fragment is the offending token or match, when one can be named safely.
	Fragment string
}

// Reject builds a rejection verdict with the given reason.
func Reject(reason string) Verdict {
	return Verdict{Accepted: false, Reason: reason}
}

// RejectFragment builds a rejection verdict naming the offending fragment.
func RejectFragment(reason, fragment string) Verdict {
	return Verdict{Accepted: false, Reason: reason, Fragment: fragment}
}

// Accept builds an acceptance verdict.
func Accept() Verdict {
	return Verdict{Accepted: true}
}

// QueryInfo holds structural metadata about an accepted query.
type QueryInfo struct {
	// Type is the statement kind; only SELECT survives validation.
	Type string `json:"query_type"`
	// Complexity is a coarse estimate: low, medium or high.
	Complexity string `json:"estimated_complexity"`
	// ContainsJoins reports whether the query joins tables.
	ContainsJoins bool `json:"contains_joins"`
	// ContainsSubqueries reports whether the query nests SELECTs.
	ContainsSubqueries bool `json:"contains_subqueries"`
	// ContainsAggregation reports whether the query aggregates rows.
	ContainsAggregation bool `json:"contains_aggregation"`
}

// Result is the outcome of a successful query execution.
type Result struct {
	// Columns holds the result column names in order.
	Columns []string `json:"columns"`
	// Rows holds the result data, one slice per row.
	Rows [][]any `json:"rows"`
	// RowCount is the number of rows returned after capping.
	RowCount int `json:"row_count"`
	// Truncated reports whether the row cap cut the result short.
	Truncated bool `json:"truncated"`
}

// ExecutionRecord is one entry in the per-process query history.
type ExecutionRecord struct {
	// ID uniquely identifies this execution.
	ID uuid.UUID `json:"id"`
	// Identity is the principal that submitted the query.
	Identity string `json:"identity"`
	// SQL is the executed statement text (template body for template runs).
	SQL string `json:"sql"`
	// TemplateID names the template used, empty for free-text queries.
	TemplateID string `json:"template_id,omitempty"`
	// RowCount is the number of rows the execution returned.
	RowCount int `json:"row_count"`
	// Duration is how long the execution took.
	Duration time.Duration `json:"duration"`
	// ExecutedAt is the UTC timestamp of the execution.
	ExecutedAt time.Time `json:"executed_at"`
	// Succeeded reports whether the execution completed without error.
	Succeeded bool `json:"succeeded"`
}

// Dataset describes one queryable table.
type Dataset struct {
	// Name is the table name.
	Name string `json:"name"`
	// RowEstimate is the approximate row count reported by the catalog.
	RowEstimate int64 `json:"row_estimate"`
}

// Column describes one column of a dataset.
type Column struct {
	// Name is the column name.
	Name string `json:"name"`
	// DataType is the storage type as reported by the catalog.
	DataType string `json:"data_type"`
	// Nullable reports whether the column accepts NULL.
	Nullable bool `json:"nullable"`
}

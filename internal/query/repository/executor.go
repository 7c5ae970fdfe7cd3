// Package repository implements query execution and catalog introspection on
// top of database/sql. Statements reach the driver with positional bind
// parameters only; parameter values never touch the SQL text.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// Executor runs validated SELECT statements against the configured database.
type Executor struct {
	db      *sql.DB
	driver  string
	maxRows int
	timeout time.Duration
}

// NewExecutor creates an Executor. driver selects the placeholder dialect
// ("postgres" or "mysql"); maxRows caps result size, zero means uncapped.
func NewExecutor(db *sql.DB, driverName string, maxRows int) *Executor {
	return &Executor{db: db, driver: driverName, maxRows: maxRows}
}

// WithTimeout bounds each execution with a per-query deadline. Zero disables
// the deadline.
func (e *Executor) WithTimeout(timeout time.Duration) *Executor {
	e.timeout = timeout
	return e
}

// Execute binds named parameters, runs the statement and collects rows up to
// the configured cap. Storage failures are reported as execution failures so
// handlers never leak driver details to callers.
func (e *Executor) Execute(ctx context.Context, sqlText string, params map[string]any) (*domain.Result, error) {
	bound, args, err := BindNamed(sqlText, params, e.driver)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rows, err := e.db.QueryContext(ctx, bound, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}

	result := &domain.Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		if e.maxRows > 0 && result.RowCount == e.maxRows {
			result.Truncated = true
			break
		}
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
		}
		for i, value := range values {
			if b, ok := value.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
		result.RowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}

	return result, nil
}

// IsTransient reports whether an execution failure looks like a dropped
// connection and is therefore worth one retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}

// BindNamed rewrites :name placeholders outside string literals into the
// driver's positional form and returns the argument list in bind order.
// Unknown placeholders and unreferenced parameters are invalid input.
func BindNamed(sqlText string, params map[string]any, driverName string) (string, []any, error) {
	var b strings.Builder
	var args []any
	positions := make(map[string]int)
	used := make(map[string]bool)

	inSingle, inDouble := false, false
	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		switch {
		case inSingle:
			b.WriteByte(c)
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			b.WriteByte(c)
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
			b.WriteByte(c)
		case c == '"':
			inDouble = true
			b.WriteByte(c)
		case c == ':':
			// A double colon is a cast, not a placeholder.
			if i+1 < len(sqlText) && sqlText[i+1] == ':' {
				b.WriteString("::")
				i++
				continue
			}
			j := i + 1
			for j < len(sqlText) && isIdentByte(sqlText[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte(c)
				continue
			}
			name := sqlText[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, apperrors.Wrap(apperrors.ErrInvalidInput,
					fmt.Sprintf("missing value for parameter %q", name))
			}
			used[name] = true
			if driverName == "postgres" {
				n, seen := positions[name]
				if !seen {
					args = append(args, value)
					n = len(args)
					positions[name] = n
				}
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(n))
			} else {
				args = append(args, value)
				b.WriteByte('?')
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}

	for name := range params {
		if !used[name] {
			return "", nil, apperrors.Wrap(apperrors.ErrInvalidInput,
				fmt.Sprintf("parameter %q is not referenced by the query", name))
		}
	}

	return b.String(), args, nil
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// PostgreSQLSchemaRepository reads catalog metadata from a PostgreSQL database.
type PostgreSQLSchemaRepository struct {
	db *sql.DB
}

// NewPostgreSQLSchemaRepository creates a new PostgreSQLSchemaRepository instance.
func NewPostgreSQLSchemaRepository(db *sql.DB) *PostgreSQLSchemaRepository {
	return &PostgreSQLSchemaRepository{db: db}
}

// ListDatasets returns the queryable tables in the public schema with the
// planner's row estimates.
func (p *PostgreSQLSchemaRepository) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	query := `SELECT t.table_name, COALESCE(c.reltuples::bigint, 0)
			  FROM information_schema.tables t
			  LEFT JOIN pg_class c ON c.relname = t.table_name
			  WHERE t.table_schema = 'public' AND t.table_type = 'BASE TABLE'
			  ORDER BY t.table_name`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}
	defer rows.Close()

	var datasets []domain.Dataset
	for rows.Next() {
		var dataset domain.Dataset
		if err := rows.Scan(&dataset.Name, &dataset.RowEstimate); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
		}
		if dataset.RowEstimate < 0 {
			dataset.RowEstimate = 0
		}
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}

	return datasets, nil
}

// GetSchema returns the column metadata for one table.
func (p *PostgreSQLSchemaRepository) GetSchema(ctx context.Context, table string) ([]domain.Column, error) {
	query := `SELECT column_name, data_type, is_nullable
			  FROM information_schema.columns
			  WHERE table_schema = 'public' AND table_name = $1
			  ORDER BY ordinal_position`

	rows, err := p.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var column domain.Column
		var nullable string
		if err := rows.Scan(&column.Name, &column.DataType, &nullable); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
		}
		column.Nullable = nullable == "YES"
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}

	if len(columns) == 0 {
		return nil, domain.ErrDatasetNotFound
	}
	return columns, nil
}

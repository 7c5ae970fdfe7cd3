package repository

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
)

// MySQLSchemaRepository reads catalog metadata from a MySQL database.
type MySQLSchemaRepository struct {
	db *sql.DB
}

// NewMySQLSchemaRepository creates a new MySQLSchemaRepository instance.
func NewMySQLSchemaRepository(db *sql.DB) *MySQLSchemaRepository {
	return &MySQLSchemaRepository{db: db}
}

// ListDatasets returns the queryable tables in the current database with
// approximate row counts.
func (m *MySQLSchemaRepository) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	query := `SELECT table_name, COALESCE(table_rows, 0)
			  FROM information_schema.tables
			  WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
			  ORDER BY table_name`

	rows, err := m.db.QueryContext(ctx, query)
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
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExecutionFailed, err.Error())
	}

	return datasets, nil
}

// GetSchema returns the column metadata for one table.
func (m *MySQLSchemaRepository) GetSchema(ctx context.Context, table string) ([]domain.Column, error) {
	query := `SELECT column_name, data_type, is_nullable
			  FROM information_schema.columns
			  WHERE table_schema = DATABASE() AND table_name = ?
			  ORDER BY ordinal_position`

	rows, err := m.db.QueryContext(ctx, query, table)
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

package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
)

func TestPostgreSQLSchemaRepository_ListDatasets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "reltuples"}).
			AddRow("responses", int64(5400)).
			AddRow("surveys", int64(-1)))

	repo := NewPostgreSQLSchemaRepository(db)
	datasets, err := repo.ListDatasets(context.Background())
	require.NoError(t, err)

	require.Len(t, datasets, 2)
	assert.Equal(t, domain.Dataset{Name: "responses", RowEstimate: 5400}, datasets[0])
	// Planner reports -1 before the first analyze; surfaced as zero.
	assert.Equal(t, domain.Dataset{Name: "surveys", RowEstimate: 0}, datasets[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSchemaRepository_GetSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("surveys").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "bigint", "NO").
			AddRow("title", "text", "YES"))

	repo := NewPostgreSQLSchemaRepository(db)
	columns, err := repo.GetSchema(context.Background(), "surveys")
	require.NoError(t, err)

	require.Len(t, columns, 2)
	assert.Equal(t, domain.Column{Name: "id", DataType: "bigint", Nullable: false}, columns[0])
	assert.Equal(t, domain.Column{Name: "title", DataType: "text", Nullable: true}, columns[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSchemaRepository_GetSchemaUnknownTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}))

	repo := NewPostgreSQLSchemaRepository(db)
	_, err = repo.GetSchema(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestPostgreSQLSchemaRepository_ListDatasetsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnError(assert.AnError)

	repo := NewPostgreSQLSchemaRepository(db)
	_, err = repo.ListDatasets(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrExecutionFailed)
}

func TestMySQLSchemaRepository_ListDatasets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "table_rows"}).
			AddRow("surveys", int64(120)))

	repo := NewMySQLSchemaRepository(db)
	datasets, err := repo.ListDatasets(context.Background())
	require.NoError(t, err)

	require.Len(t, datasets, 1)
	assert.Equal(t, domain.Dataset{Name: "surveys", RowEstimate: 120}, datasets[0])
}

func TestMySQLSchemaRepository_GetSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("surveys").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "bigint", "NO"))

	repo := NewMySQLSchemaRepository(db)
	columns, err := repo.GetSchema(context.Background(), "surveys")
	require.NoError(t, err)

	require.Len(t, columns, 1)
	assert.Equal(t, domain.Column{Name: "id", DataType: "bigint", Nullable: false}, columns[0])
}

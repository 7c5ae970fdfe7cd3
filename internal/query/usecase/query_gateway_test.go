package usecase

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/query/domain"
	"github.com/queryware/sqlgate/internal/query/validator"
)

// MockExecutor is a mock implementation of Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, sqlText string, params map[string]any) (*domain.Result, error) {
	args := m.Called(ctx, sqlText, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result), args.Error(1)
}

// MockSchemaRepository is a mock implementation of SchemaRepository
type MockSchemaRepository struct {
	mock.Mock
}

func (m *MockSchemaRepository) ListDatasets(ctx context.Context) ([]domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dataset), args.Error(1)
}

func (m *MockSchemaRepository) GetSchema(ctx context.Context, table string) ([]domain.Column, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Column), args.Error(1)
}

// MockTemplateStore is a mock implementation of TemplateStore
type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) Get(id string) (*domain.Template, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateStore) List() []*domain.Template {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.Template)
}

func testPrincipal() *authDomain.Principal {
	return &authDomain.Principal{
		Identity:     "demo_user",
		Capabilities: []authDomain.Capability{authDomain.QueryCapability},
		Kind:         authDomain.StaticKeyCredential,
	}
}

func newTestGateway(executor Executor, templates TemplateStore, schema SchemaRepository) QueryGateway {
	return NewQueryGateway(validator.NewValidator(0), executor, templates, schema, NewHistory(10))
}

func TestQueryGateway_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		gateway := newTestGateway(mockExecutor, &MockTemplateStore{}, &MockSchemaRepository{})

		result := &domain.Result{Columns: []string{"count"}, Rows: [][]any{{int64(3)}}, RowCount: 1}
		mockExecutor.On("Execute", ctx, "SELECT COUNT(*) FROM surveys", map[string]any(nil)).
			Return(result, nil).Once()

		execution, err := gateway.Execute(ctx, testPrincipal(), "SELECT COUNT(*) FROM surveys", nil)
		require.NoError(t, err)
		assert.Equal(t, result, execution.Result)
		assert.True(t, execution.Info.ContainsAggregation)
		assert.Equal(t, "demo_user", execution.Record.Identity)
		assert.True(t, execution.Record.Succeeded)
		mockExecutor.AssertExpectations(t)
	})

	t.Run("UnsafeQueryIsNeverExecuted", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		gateway := newTestGateway(mockExecutor, &MockTemplateStore{}, &MockSchemaRepository{})

		_, err := gateway.Execute(ctx, testPrincipal(), "DROP TABLE surveys", nil)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnsafeQuery))
		assert.Contains(t, err.Error(), "only SELECT queries are allowed")
		mockExecutor.AssertNotCalled(t, "Execute")
	})

	t.Run("TransientFailureRetriedOnce", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		gateway := newTestGateway(mockExecutor, &MockTemplateStore{}, &MockSchemaRepository{})

		result := &domain.Result{Columns: []string{"id"}, RowCount: 0, Rows: [][]any{}}
		mockExecutor.On("Execute", ctx, "SELECT id FROM surveys", map[string]any(nil)).
			Return(nil, driver.ErrBadConn).Once()
		mockExecutor.On("Execute", ctx, "SELECT id FROM surveys", map[string]any(nil)).
			Return(result, nil).Once()

		execution, err := gateway.Execute(ctx, testPrincipal(), "SELECT id FROM surveys", nil)
		require.NoError(t, err)
		assert.Equal(t, result, execution.Result)
		mockExecutor.AssertExpectations(t)
	})

	t.Run("PermanentFailureNotRetried", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		gateway := newTestGateway(mockExecutor, &MockTemplateStore{}, &MockSchemaRepository{})

		storageErr := errors.New("syntax error at or near")
		mockExecutor.On("Execute", ctx, "SELECT id FROM surveys", map[string]any(nil)).
			Return(nil, storageErr).Once()

		_, err := gateway.Execute(ctx, testPrincipal(), "SELECT id FROM surveys", nil)
		require.Error(t, err)
		mockExecutor.AssertExpectations(t)
	})
}

func TestQueryGateway_ExecuteTemplate(t *testing.T) {
	ctx := context.Background()

	template := &domain.Template{
		ID:  "completed-surveys",
		SQL: "SELECT id FROM surveys WHERE status = :status",
		Params: []domain.ParamSpec{
			{Name: "status", Type: domain.StringParam, Required: true},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		mockTemplates := &MockTemplateStore{}
		gateway := newTestGateway(mockExecutor, mockTemplates, &MockSchemaRepository{})

		result := &domain.Result{Columns: []string{"id"}, Rows: [][]any{{int64(1)}}, RowCount: 1}
		mockTemplates.On("Get", "completed-surveys").Return(template, nil).Once()
		mockExecutor.On("Execute", ctx, template.SQL, map[string]any{"status": "completed"}).
			Return(result, nil).Once()

		execution, err := gateway.ExecuteTemplate(ctx, testPrincipal(), "completed-surveys",
			map[string]any{"status": "completed"})
		require.NoError(t, err)
		assert.Equal(t, result, execution.Result)
		assert.Equal(t, "completed-surveys", execution.Record.TemplateID)
		mockExecutor.AssertExpectations(t)
		mockTemplates.AssertExpectations(t)
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		mockTemplates := &MockTemplateStore{}
		gateway := newTestGateway(mockExecutor, mockTemplates, &MockSchemaRepository{})

		mockTemplates.On("Get", "missing").Return(nil, domain.ErrTemplateNotFound).Once()

		_, err := gateway.ExecuteTemplate(ctx, testPrincipal(), "missing", nil)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
		mockExecutor.AssertNotCalled(t, "Execute")
	})

	t.Run("BadValuesAreNeverExecuted", func(t *testing.T) {
		mockExecutor := &MockExecutor{}
		mockTemplates := &MockTemplateStore{}
		gateway := newTestGateway(mockExecutor, mockTemplates, &MockSchemaRepository{})

		mockTemplates.On("Get", "completed-surveys").Return(template, nil).Once()

		_, err := gateway.ExecuteTemplate(ctx, testPrincipal(), "completed-surveys", map[string]any{})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		mockExecutor.AssertNotCalled(t, "Execute")
	})
}

func TestQueryGateway_History(t *testing.T) {
	ctx := context.Background()

	mockExecutor := &MockExecutor{}
	gateway := newTestGateway(mockExecutor, &MockTemplateStore{}, &MockSchemaRepository{})

	result := &domain.Result{Columns: []string{"id"}, Rows: [][]any{}, RowCount: 0}
	mockExecutor.On("Execute", ctx, mock.Anything, mock.Anything).Return(result, nil)

	principal := testPrincipal()
	other := &authDomain.Principal{Identity: "other_user"}

	_, err := gateway.Execute(ctx, principal, "SELECT id FROM surveys", nil)
	require.NoError(t, err)
	_, err = gateway.Execute(ctx, other, "SELECT id FROM respondents", nil)
	require.NoError(t, err)
	_, err = gateway.Execute(ctx, principal, "SELECT id FROM responses", nil)
	require.NoError(t, err)

	// Only the caller's own executions come back, newest first.
	records := gateway.History(principal)
	require.Len(t, records, 2)
	assert.Equal(t, "SELECT id FROM responses", records[0].SQL)
	assert.Equal(t, "SELECT id FROM surveys", records[1].SQL)

	// Failed executions are recorded too.
	mockFailing := &MockExecutor{}
	failing := newTestGateway(mockFailing, &MockTemplateStore{}, &MockSchemaRepository{})
	mockFailing.On("Execute", ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))
	_, err = failing.Execute(ctx, principal, "SELECT id FROM surveys", nil)
	require.Error(t, err)
	records = failing.History(principal)
	require.Len(t, records, 1)
	assert.False(t, records[0].Succeeded)
}

func TestHistoryRingEvictsOldest(t *testing.T) {
	history := NewHistory(2)
	for _, sqlText := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		history.Add(domain.ExecutionRecord{Identity: "demo_user", SQL: sqlText})
	}

	records := history.List("demo_user")
	require.Len(t, records, 2)
	assert.Equal(t, "SELECT 3", records[0].SQL)
	assert.Equal(t, "SELECT 2", records[1].SQL)
}

func TestQueryGateway_Datasets(t *testing.T) {
	ctx := context.Background()

	mockSchema := &MockSchemaRepository{}
	gateway := newTestGateway(&MockExecutor{}, &MockTemplateStore{}, mockSchema)

	datasets := []domain.Dataset{{Name: "surveys", RowEstimate: 120}}
	columns := []domain.Column{{Name: "id", DataType: "bigint"}}
	mockSchema.On("ListDatasets", ctx).Return(datasets, nil).Once()
	mockSchema.On("GetSchema", ctx, "surveys").Return(columns, nil).Once()

	got, err := gateway.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, datasets, got)

	gotColumns, err := gateway.GetSchema(ctx, "surveys")
	require.NoError(t, err)
	assert.Equal(t, columns, gotColumns)
	mockSchema.AssertExpectations(t)
}

package app

import (
	"fmt"

	queryHTTP "github.com/queryware/sqlgate/internal/query/http"
	queryRepository "github.com/queryware/sqlgate/internal/query/repository"
	queryService "github.com/queryware/sqlgate/internal/query/service"
	queryUseCase "github.com/queryware/sqlgate/internal/query/usecase"
	queryValidator "github.com/queryware/sqlgate/internal/query/validator"
)

// TemplateStore returns the query template catalog.
func (c *Container) TemplateStore() (*queryService.TemplateStore, error) {
	var err error
	c.templateStoreInit.Do(func() {
		c.templateStore, err = queryService.NewTemplateStore(c.config.TemplatesFile)
		if err != nil {
			c.initErrors["templateStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["templateStore"]; exists {
		return nil, storedErr
	}
	return c.templateStore, nil
}

// QueryGateway returns the query gateway.
func (c *Container) QueryGateway() (queryUseCase.QueryGateway, error) {
	var err error
	c.queryGatewayInit.Do(func() {
		c.queryGateway, err = c.initQueryGateway()
		if err != nil {
			c.initErrors["queryGateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["queryGateway"]; exists {
		return nil, storedErr
	}
	return c.queryGateway, nil
}

// QueryHandler returns the query HTTP handler.
func (c *Container) QueryHandler() (*queryHTTP.QueryHandler, error) {
	gateway, err := c.QueryGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get query gateway for query handler: %w", err)
	}

	gateMetrics, err := c.GateMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get gate metrics for query handler: %w", err)
	}

	return queryHTTP.NewQueryHandler(gateway, gateMetrics, c.Logger()), nil
}

// initQueryGateway creates the query gateway with all its dependencies.
func (c *Container) initQueryGateway() (queryUseCase.QueryGateway, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for query gateway: %w", err)
	}

	templates, err := c.TemplateStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get template store for query gateway: %w", err)
	}

	schema, err := c.initSchemaRepository()
	if err != nil {
		return nil, err
	}

	executor := queryRepository.NewExecutor(db, c.config.DBDriver, c.config.QueryMaxRows).
		WithTimeout(c.config.QueryTimeout)

	gateway := queryUseCase.NewQueryGateway(
		queryValidator.NewValidator(c.config.QueryMaxLength),
		executor,
		templates,
		schema,
		queryUseCase.NewHistory(c.config.QueryHistorySize),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for query gateway: %w", err)
	}

	return queryUseCase.NewQueryGatewayWithMetrics(gateway, businessMetrics), nil
}

// initSchemaRepository creates the schema repository based on the database driver.
func (c *Container) initSchemaRepository() (queryUseCase.SchemaRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for schema repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return queryRepository.NewMySQLSchemaRepository(db), nil
	case "postgres":
		return queryRepository.NewPostgreSQLSchemaRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

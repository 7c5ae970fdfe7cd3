// Package http provides HTTP handlers for query submission, templates,
// history and dataset introspection.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/queryware/sqlgate/internal/auth/http"
	apperrors "github.com/queryware/sqlgate/internal/errors"
	"github.com/queryware/sqlgate/internal/httputil"
	"github.com/queryware/sqlgate/internal/metrics"
	"github.com/queryware/sqlgate/internal/query/http/dto"
	queryUseCase "github.com/queryware/sqlgate/internal/query/usecase"
	customValidation "github.com/queryware/sqlgate/internal/validation"
)

// QueryHandler handles HTTP requests for query operations.
type QueryHandler struct {
	gateway     queryUseCase.QueryGateway
	gateMetrics metrics.GateMetrics
	logger      *slog.Logger
}

// NewQueryHandler creates a new query handler with required dependencies.
func NewQueryHandler(
	gateway queryUseCase.QueryGateway,
	gateMetrics metrics.GateMetrics,
	logger *slog.Logger,
) *QueryHandler {
	return &QueryHandler{
		gateway:     gateway,
		gateMetrics: gateMetrics,
		logger:      logger,
	}
}

// ExecuteQueryHandler validates and executes a free-text SELECT query.
// POST /v1/query - requires the query capability.
// Returns 200 OK with rows and column metadata, 400 with the validator
// reason for unsafe SQL.
func (h *QueryHandler) ExecuteQueryHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	var req dto.ExecuteQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	execution, err := h.gateway.Execute(c.Request.Context(), principal, req.SQL, req.Params)
	if apperrors.Is(err, apperrors.ErrUnsafeQuery) {
		h.gateMetrics.RecordVerdict(c.Request.Context(), false, err.Error())
		h.logger.Warn("unsafe query rejected",
			slog.String("identity", principal.Identity),
			slog.String("reason", err.Error()))
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	h.gateMetrics.RecordVerdict(c.Request.Context(), true, "")

	h.logger.Info("query executed",
		slog.String("identity", principal.Identity),
		slog.String("execution_id", execution.Record.ID.String()),
		slog.Int("row_count", execution.Result.RowCount))

	c.JSON(http.StatusOK, dto.MapExecutionToResponse(execution))
}

// ListTemplatesHandler returns the registered templates without SQL bodies.
// GET /v1/query/templates - requires the query capability.
func (h *QueryHandler) ListTemplatesHandler(c *gin.Context) {
	templates := h.gateway.ListTemplates()
	c.JSON(http.StatusOK, gin.H{"data": dto.MapTemplatesToListResponse(templates)})
}

// ExecuteTemplateHandler binds typed values into a registered template and executes it.
// POST /v1/query/templates/:id - requires the query capability.
func (h *QueryHandler) ExecuteTemplateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	templateID := c.Param("id")

	var req dto.ExecuteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	execution, err := h.gateway.ExecuteTemplate(c.Request.Context(), principal, templateID, req.Params)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("template executed",
		slog.String("identity", principal.Identity),
		slog.String("template_id", templateID),
		slog.String("execution_id", execution.Record.ID.String()),
		slog.Int("row_count", execution.Result.RowCount))

	c.JSON(http.StatusOK, dto.MapExecutionToResponse(execution))
}

// HistoryHandler returns the caller's recent executions, newest first.
// GET /v1/query/history - requires the query capability. Identities only
// ever see their own history.
func (h *QueryHandler) HistoryHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthenticated, h.logger)
		return
	}

	records := h.gateway.History(principal)
	c.JSON(http.StatusOK, gin.H{"data": dto.MapRecordsToHistoryResponse(records)})
}

// ListDatasetsHandler returns the queryable tables.
// GET /v1/datasets - requires the read capability.
func (h *QueryHandler) ListDatasetsHandler(c *gin.Context) {
	datasets, err := h.gateway.ListDatasets(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": datasets})
}

// GetSchemaHandler returns the column metadata for one table.
// GET /v1/datasets/:table/schema - requires the read capability.
func (h *QueryHandler) GetSchemaHandler(c *gin.Context) {
	table := c.Param("table")
	if err := customValidation.ValidateIdentifier(table); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	columns, err := h.gateway.GetSchema(c.Request.Context(), table)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"table": table, "columns": columns})
}
